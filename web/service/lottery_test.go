package service

import (
	"fmt"
	"testing"

	"gift-gap/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedParticipants(t *testing.T, s *ParticipantService, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		addParticipant(t, s, int64(i), fmt.Sprintf("Person %d", i))
	}
}

func TestLotteryDerangement(t *testing.T) {
	for _, n := range []int{2, 3, 5, 10} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			setupTestDB(t)
			participants := &ParticipantService{}
			lottery := &LotteryService{}

			seedParticipants(t, participants, n)

			pairs, err := lottery.Run(false)
			require.NoError(t, err)
			require.Len(t, pairs, n)

			receivers := make(map[int64]bool, n)
			for _, pair := range pairs {
				assert.NotEqual(t, pair.GiverId, pair.ReceiverId, "nobody gifts to themselves")
				assert.False(t, receivers[pair.ReceiverId], "receiver %d appears twice", pair.ReceiverId)
				receivers[pair.ReceiverId] = true
			}
			assert.Len(t, receivers, n, "everybody receives exactly once")

			all, err := participants.All()
			require.NoError(t, err)
			for _, p := range all {
				assert.NotZero(t, p.AssignedTo, "participant %d has no assignment", p.Id)
			}
		})
	}
}

func TestLotterySingleCycle(t *testing.T) {
	setupTestDB(t)
	participants := &ParticipantService{}
	lottery := &LotteryService{}

	seedParticipants(t, participants, 5)

	pairs, err := lottery.Run(false)
	require.NoError(t, err)

	next := make(map[int64]int64, len(pairs))
	for _, pair := range pairs {
		next[pair.GiverId] = pair.ReceiverId
	}

	// walking giver to receiver must visit all participants before
	// returning to the start
	start := pairs[0].GiverId
	seen := 0
	for cur := start; ; {
		cur = next[cur]
		seen++
		if cur == start {
			break
		}
		require.LessOrEqual(t, seen, len(pairs), "assignment graph is not a single cycle")
	}
	assert.Equal(t, len(pairs), seen)
}

func TestLotteryInsufficientParticipants(t *testing.T) {
	setupTestDB(t)
	participants := &ParticipantService{}
	lottery := &LotteryService{}

	_, err := lottery.Run(false)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)

	addParticipant(t, participants, 1, "Alone")

	_, err = lottery.Run(false)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)

	out, err := participants.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.AssignedTo, "failed draw must not mutate the store")

	history, err := database.GetDrawHistory(0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestLotteryAlreadyDrawn(t *testing.T) {
	setupTestDB(t)
	participants := &ParticipantService{}
	lottery := &LotteryService{}

	seedParticipants(t, participants, 3)

	first, err := lottery.Run(false)
	require.NoError(t, err)

	_, err = lottery.Run(false)
	assert.ErrorIs(t, err, ErrAlreadyDrawn)

	// refusal leaves the first draw intact
	all, err := participants.All()
	require.NoError(t, err)
	firstByGiver := make(map[int64]int64)
	for _, pair := range first {
		firstByGiver[pair.GiverId] = pair.ReceiverId
	}
	for _, p := range all {
		assert.Equal(t, firstByGiver[p.Id], p.AssignedTo)
	}
}

func TestLotteryForceReset(t *testing.T) {
	setupTestDB(t)
	participants := &ParticipantService{}
	lottery := &LotteryService{}

	seedParticipants(t, participants, 4)

	_, err := lottery.Run(false)
	require.NoError(t, err)

	second, err := lottery.Run(true)
	require.NoError(t, err)
	require.Len(t, second, 4)

	all, err := participants.All()
	require.NoError(t, err)
	secondByGiver := make(map[int64]int64)
	for _, pair := range second {
		secondByGiver[pair.GiverId] = pair.ReceiverId
	}
	for _, p := range all {
		assert.Equal(t, secondByGiver[p.Id], p.AssignedTo, "redraw must replace the stored assignment")
	}

	// both draws stay in the audit history
	history, err := database.GetDrawHistory(0)
	require.NoError(t, err)
	assert.Len(t, history, 8)

	draws, err := database.CountDraws()
	require.NoError(t, err)
	assert.Equal(t, int64(2), draws)
}
