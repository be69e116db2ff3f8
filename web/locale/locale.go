package locale

import (
	"embed"
	"io/fs"
	"strings"

	"gift-gap/config"
	"gift-gap/logger"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

type I18nType string

const (
	Bot I18nType = "bot"
)

var (
	i18nBundle   *i18n.Bundle
	LocalizerBot *i18n.Localizer
)

// InitLocalizer loads every embedded translation file and builds the bot
// localizer for the configured locale, falling back to English for missing
// messages.
func InitLocalizer(i18nFS embed.FS) error {
	i18nBundle = i18n.NewBundle(language.English)
	i18nBundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	err := fs.WalkDir(i18nFS, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".toml") {
			return nil
		}
		data, err := i18nFS.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = i18nBundle.ParseMessageFileBytes(data, path)
		return err
	})
	if err != nil {
		return err
	}

	LocalizerBot = i18n.NewLocalizer(i18nBundle, config.GetLocale())
	return nil
}

func createTemplateData(params []string, separator ...string) map[string]interface{} {
	sep := "=="
	if len(separator) > 0 {
		sep = separator[0]
	}

	templateData := make(map[string]interface{})
	for _, param := range params {
		parts := strings.SplitN(param, sep, 2)
		if len(parts) == 2 {
			templateData[parts[0]] = parts[1]
		}
	}
	return templateData
}

// I18n resolves a message key with optional "Key==Value" template params.
func I18n(i18nType I18nType, key string, params ...string) string {
	var localizer *i18n.Localizer
	switch i18nType {
	case Bot:
		localizer = LocalizerBot
	default:
		logger.Errorf("Invalid type of I18n: %s", i18nType)
		return ""
	}
	if localizer == nil {
		logger.Error("I18n localizer is not initialized")
		return ""
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Errorf("Failed to localize message %s: %v", key, err)
		return ""
	}
	return msg
}
