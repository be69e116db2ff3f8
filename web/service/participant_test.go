package service

import (
	"path/filepath"
	"testing"

	"gift-gap/database"
	"gift-gap/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	err := database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
}

func addParticipant(t *testing.T, s *ParticipantService, id int64, name string) *model.Participant {
	t.Helper()
	p := &model.Participant{
		Id:       id,
		Username: "",
		Name:     name,
		Wish:     "a nice gift for " + name,
	}
	require.NoError(t, s.Put(p))
	return p
}

func TestParticipantPutGet(t *testing.T) {
	setupTestDB(t)
	s := &ParticipantService{}

	in := &model.Participant{
		Id:       42,
		Username: "alice",
		Name:     "Alice",
		Wish:     "a red scarf",
		Comment:  "allergic to wool",
	}
	require.NoError(t, s.Put(in))

	out, err := s.Get(42)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, int64(42), out.Id)
	assert.Equal(t, "alice", out.Username)
	assert.Equal(t, "Alice", out.Name)
	assert.Equal(t, "a red scarf", out.Wish)
	assert.Equal(t, "allergic to wool", out.Comment)
	assert.Equal(t, int64(0), out.AssignedTo)
	assert.False(t, out.CreatedAt.IsZero())
}

func TestParticipantGetMissing(t *testing.T) {
	setupTestDB(t)
	s := &ParticipantService{}

	out, err := s.Get(999)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestParticipantReRegistrationOverwrites(t *testing.T) {
	setupTestDB(t)
	s := &ParticipantService{}

	addParticipant(t, s, 1, "Alice")
	addParticipant(t, s, 2, "Bob")
	require.NoError(t, s.SetAssignment(1, 2))

	replaced := &model.Participant{
		Id:       1,
		Username: "alice2",
		Name:     "Alicia",
		Wish:     "a blue scarf",
	}
	require.NoError(t, s.Put(replaced))

	out, err := s.Get(1)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Alicia", out.Name)
	assert.Equal(t, "a blue scarf", out.Wish)
	assert.Equal(t, "", out.Comment)
	assert.Equal(t, int64(0), out.AssignedTo, "re-registration must clear the assignment")
}

func TestParticipantDelete(t *testing.T) {
	setupTestDB(t)
	s := &ParticipantService{}

	addParticipant(t, s, 7, "Greg")

	deleted, err := s.Delete(7)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(7)
	require.NoError(t, err)
	assert.False(t, deleted)

	out, err := s.Get(7)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestParticipantAllOrder(t *testing.T) {
	setupTestDB(t)
	s := &ParticipantService{}

	addParticipant(t, s, 3, "Carol")
	addParticipant(t, s, 1, "Alice")
	addParticipant(t, s, 2, "Bob")

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 3)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestParticipantSetAssignment(t *testing.T) {
	setupTestDB(t)
	s := &ParticipantService{}

	addParticipant(t, s, 1, "Alice")
	addParticipant(t, s, 2, "Bob")

	require.NoError(t, s.SetAssignment(1, 2))

	out, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.AssignedTo)

	drawn, err := s.CountDrawn()
	require.NoError(t, err)
	assert.Equal(t, int64(1), drawn)

	err = s.SetAssignment(99, 1)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestParticipantClearAllAssignments(t *testing.T) {
	setupTestDB(t)
	s := &ParticipantService{}

	addParticipant(t, s, 1, "Alice")
	addParticipant(t, s, 2, "Bob")
	require.NoError(t, s.SetAssignment(1, 2))
	require.NoError(t, s.SetAssignment(2, 1))

	require.NoError(t, s.ClearAllAssignments())

	drawn, err := s.CountDrawn()
	require.NoError(t, err)
	assert.Equal(t, int64(0), drawn)
}

func TestParticipantClear(t *testing.T) {
	setupTestDB(t)
	s := &ParticipantService{}

	addParticipant(t, s, 1, "Alice")
	addParticipant(t, s, 2, "Bob")

	lottery := &LotteryService{}
	_, err := lottery.Run(false)
	require.NoError(t, err)

	require.NoError(t, s.Clear())

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	history, err := database.GetDrawHistory(0)
	require.NoError(t, err)
	assert.Empty(t, history)
}
