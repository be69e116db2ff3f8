package service

import (
	"testing"

	"gift-gap/database/model"
	"gift-gap/web/locale"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func setTestLocalizer(t *testing.T, messages ...*i18n.Message) {
	t.Helper()
	bundle := i18n.NewBundle(language.English)
	require.NoError(t, bundle.AddMessages(language.English, messages...))

	old := locale.LocalizerBot
	locale.LocalizerBot = i18n.NewLocalizer(bundle, "en")
	t.Cleanup(func() { locale.LocalizerBot = old })
}

func TestIsAdmin(t *testing.T) {
	old := adminIds
	defer func() { adminIds = old }()

	adminIds = []int64{10, 20}
	assert.True(t, IsAdmin(10))
	assert.True(t, IsAdmin(20))
	assert.False(t, IsAdmin(30))

	adminIds = nil
	assert.False(t, IsAdmin(10))
}

func TestBuildParticipantListDeletedReceiver(t *testing.T) {
	setTestLocalizer(t,
		&i18n.Message{ID: "list.header", Other: "Participants:"},
		&i18n.Message{ID: "list.givesTo", Other: " → {{ .Name }}"},
		&i18n.Message{ID: "list.unknown", Other: "(deleted)"},
	)

	bot := &Tgbot{}
	participants := []*model.Participant{
		{Id: 1, Name: "Alice", Username: "alice", AssignedTo: 2},
		{Id: 3, Name: "Carol", AssignedTo: 99},
	}

	out := bot.buildParticipantList(participants)
	assert.Contains(t, out, "1. Alice (@alice) → (deleted)")
	assert.Contains(t, out, "2. Carol → (deleted)")

	participants = append(participants, &model.Participant{Id: 2, Name: "Bob"})
	out = bot.buildParticipantList(participants)
	assert.Contains(t, out, "1. Alice (@alice) → Bob")
}
