package web

import (
	"testing"

	"gift-gap/web/locale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// every message key referenced from code, with sample template params
// where the message has placeholders
var botMessageKeys = map[string][]string{
	"wentWrong": nil,
	"noQuery":   nil,

	"commands.startDesc":  nil,
	"commands.sendDesc":   nil,
	"commands.cancelDesc": nil,
	"commands.clearDesc":  nil,
	"commands.helpDesc":   nil,
	"commands.help":       nil,
	"commands.unknown":    nil,
	"commands.getID":      {"ID==1"},
	"commands.adminOnly":  nil,

	"register.welcome":         nil,
	"register.exists":          nil,
	"register.nameTooShort":    nil,
	"register.wishTooShort":    nil,
	"register.askWish":         nil,
	"register.askComment":      nil,
	"register.summary":         {"Name==a", "Wish==b", "Comment==c"},
	"register.noComment":       nil,
	"register.submitted":       nil,
	"register.incomplete":      nil,
	"register.canceled":        nil,
	"register.nothingToCancel": nil,
	"register.kept":            nil,

	"buttons.restart":     nil,
	"buttons.keep":        nil,
	"buttons.skip":        nil,
	"buttons.cancel":      nil,
	"buttons.redraw":      nil,
	"buttons.clearMyData": nil,
	"buttons.clearAll":    nil,

	"lottery.notEnough":     {"Count==1"},
	"lottery.alreadyDrawn":  nil,
	"lottery.done":          {"Count==3", "Sent==3"},
	"lottery.failedCount":   {"Count==1"},
	"lottery.result":        {"Name==a", "Wish==b"},
	"lottery.redrawResult":  {"Name==a", "Wish==b"},
	"lottery.resultComment": {"Comment==c"},

	"list.empty":   nil,
	"list.header":  nil,
	"list.givesTo": {"Name==a"},
	"list.unknown": nil,

	"clear.confirm":    nil,
	"clear.cleared":    nil,
	"clear.failed":     nil,
	"clear.nothing":    nil,
	"clear.allConfirm": nil,
	"clear.allCleared": nil,

	"answers.canceled":       nil,
	"answers.errorOperation": nil,

	"stats.daily": {"Total==3", "Drawn==3"},

	"status.msg": {"Version==1.0.0", "Cpu==1.0", "MemCurrent==1 B", "MemTotal==1 B", "Uptime==1s", "Total==3", "Drawn==3"},
}

func TestBotMessagesResolveInEveryLocale(t *testing.T) {
	for _, lang := range []string{"en", "ru", "kk"} {
		t.Run(lang, func(t *testing.T) {
			t.Setenv("GIFTGAP_LOCALE", lang)
			require.NoError(t, locale.InitLocalizer(i18nFS))

			for key, params := range botMessageKeys {
				msg := locale.I18n(locale.Bot, key, params...)
				assert.NotEmpty(t, msg, "key %q does not resolve in locale %q", key, lang)
			}
		})
	}
}
