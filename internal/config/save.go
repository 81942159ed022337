package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const configTemplate = `# Vaani Configuration
# Changes are applied by the running daemon without a restart.

# Session defaults, applied to the widget when the daemon starts
[session]
  translation = %t            # Translate recognized speech
  input_language = %s         # "Hindi", "English", "Kannada", "Malayalam" (or hi/en/kn/ml); empty = choose in the widget
  output_language = %s        # Translation target; must differ from input_language
  speak = %t                  # Read translations aloud
  final_results_only = %t     # Ignore interim recognizer results

# Translation service
[translation]
  provider = %s               # "libretranslate", "openai" or "mock"
  endpoint = %s               # LibreTranslate base URL
  api_key = %s                # API key (or set VAANI_TRANSLATION_API_KEY / OPENAI_API_KEY)
  model = %s                  # OpenAI model (empty = gpt-4o-mini)
  base_url = %s               # OpenAI-compatible server (empty = api.openai.com)
  timeout = %s                # Per-request timeout
  mock_delay = %s             # Artificial latency for the mock provider

# Widget server
[server]
  listen = %s
  open_browser = %t           # Open the widget when the daemon starts

# Desktop Notification Configuration
[notifications]
  enabled = %t
  type = %s                   # "desktop", "log", "none"
`

// Save writes cfg to the config path with comments
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(configPath, cfg)
}

// SaveFile writes cfg to path atomically
func SaveFile(path string, cfg *Config) error {
	content := fmt.Sprintf(configTemplate,
		cfg.Session.Translation,
		strconv.Quote(cfg.Session.InputLanguage),
		strconv.Quote(cfg.Session.OutputLanguage),
		cfg.Session.Speak,
		cfg.Session.FinalResultsOnly,
		strconv.Quote(cfg.Translation.Provider),
		strconv.Quote(cfg.Translation.Endpoint),
		strconv.Quote(cfg.Translation.APIKey),
		strconv.Quote(cfg.Translation.Model),
		strconv.Quote(cfg.Translation.BaseURL),
		strconv.Quote(cfg.Translation.Timeout.String()),
		strconv.Quote(cfg.Translation.MockDelay.String()),
		strconv.Quote(cfg.Server.Listen),
		cfg.Server.OpenBrowser,
		cfg.Notifications.Enabled,
		strconv.Quote(cfg.Notifications.Type),
	)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp := path + ".tmp"
	// the file may hold an API key
	if err := os.WriteFile(tmp, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}
