package config

import (
	"fmt"
	"net"
	"net/url"

	"github.com/vaanihq/vaani/internal/language"
)

func (c *Config) Validate() error {
	// Session
	input, err := parseLanguage("session.input_language", c.Session.InputLanguage)
	if err != nil {
		return err
	}
	output, err := parseLanguage("session.output_language", c.Session.OutputLanguage)
	if err != nil {
		return err
	}
	if !input.IsNone() && input == output {
		return fmt.Errorf("invalid session.output_language: %s (must differ from session.input_language)", c.Session.OutputLanguage)
	}

	// Translation
	switch c.Translation.Provider {
	case "libretranslate":
		if c.Translation.Endpoint == "" {
			return fmt.Errorf("invalid translation.endpoint: empty (required for libretranslate)")
		}
		if u, err := url.Parse(c.Translation.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid translation.endpoint: %s (must be an http(s) URL)", c.Translation.Endpoint)
		}
	case "openai":
		if c.resolveAPIKey() == "" {
			return fmt.Errorf("OpenAI API key required: not found in config (translation.api_key) or environment variable (%s, %s)", EnvTranslationAPIKey, EnvOpenAIAPIKey)
		}
		if c.Translation.BaseURL != "" {
			if u, err := url.Parse(c.Translation.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("invalid translation.base_url: %s", c.Translation.BaseURL)
			}
		}
	case "mock":
	default:
		return fmt.Errorf("unsupported translation.provider: %s (must be libretranslate, openai, or mock)", c.Translation.Provider)
	}
	if c.Translation.Timeout <= 0 {
		return fmt.Errorf("invalid translation.timeout: %v", c.Translation.Timeout)
	}
	if c.Translation.MockDelay < 0 {
		return fmt.Errorf("invalid translation.mock_delay: %v", c.Translation.MockDelay)
	}

	// Server
	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		return fmt.Errorf("invalid server.listen: %s (%v)", c.Server.Listen, err)
	}

	// Notifications
	validTypes := map[string]bool{"desktop": true, "log": true, "none": true}
	if !validTypes[c.Notifications.Type] {
		return fmt.Errorf("invalid notifications.type: %s (must be desktop, log, or none)", c.Notifications.Type)
	}

	return nil
}

func parseLanguage(key, value string) (language.Language, error) {
	if value == "" {
		return language.None, nil
	}
	lang, ok := language.Parse(value)
	if !ok {
		return language.None, fmt.Errorf("invalid %s: %s (must be one of %v)", key, value, language.Codes())
	}
	return lang, nil
}
