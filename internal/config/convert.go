package config

import (
	"os"

	"github.com/vaanihq/vaani/internal/language"
	"github.com/vaanihq/vaani/internal/notify"
	"github.com/vaanihq/vaani/internal/selector"
	"github.com/vaanihq/vaani/internal/session"
	"github.com/vaanihq/vaani/internal/translate"
)

const (
	EnvTranslationAPIKey = "VAANI_TRANSLATION_API_KEY"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
)

func (c *Config) ToTranslateConfig() translate.Config {
	return translate.Config{
		Provider:  c.Translation.Provider,
		Endpoint:  c.Translation.Endpoint,
		APIKey:    c.resolveAPIKey(),
		Model:     c.Translation.Model,
		BaseURL:   c.Translation.BaseURL,
		Timeout:   c.Translation.Timeout,
		MockDelay: c.Translation.MockDelay,
	}
}

func (c *Config) ToSessionOptions() session.Options {
	return session.Options{
		Speak:            c.Session.Speak,
		FinalResultsOnly: c.Session.FinalResultsOnly,
	}
}

// ToSelection returns the initial selection. Unknown languages are left unselected.
func (c *Config) ToSelection() selector.Selection {
	return selector.Selection{}.
		WithTranslation(c.Session.Translation).
		WithInput(language.FromCode(c.Session.InputLanguage)).
		WithOutput(language.FromCode(c.Session.OutputLanguage))
}

func (c *Config) ToNotifier() notify.Notifier {
	return notify.New(c.Notifications.Enabled, c.Notifications.Type)
}

// resolveAPIKey prefers the config file, then VAANI_TRANSLATION_API_KEY,
// then OPENAI_API_KEY for the openai provider
func (c *Config) resolveAPIKey() string {
	if c.Translation.APIKey != "" {
		return c.Translation.APIKey
	}
	if key := os.Getenv(EnvTranslationAPIKey); key != "" {
		return key
	}
	if c.Translation.Provider == "openai" {
		return os.Getenv(EnvOpenAIAPIKey)
	}
	return ""
}
