package config

import "time"

type Config struct {
	Session       SessionConfig       `toml:"session"`
	Translation   TranslationConfig   `toml:"translation"`
	Server        ServerConfig        `toml:"server"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// SessionConfig holds the initial language selection and session behaviour
type SessionConfig struct {
	Translation      bool   `toml:"translation"`
	InputLanguage    string `toml:"input_language"`  // name, code or locale; empty = not chosen
	OutputLanguage   string `toml:"output_language"` // name, code or locale; empty = not chosen
	Speak            bool   `toml:"speak"`
	FinalResultsOnly bool   `toml:"final_results_only"`
}

type TranslationConfig struct {
	Provider  string        `toml:"provider"` // "libretranslate", "openai", "mock"
	Endpoint  string        `toml:"endpoint"` // LibreTranslate base URL
	APIKey    string        `toml:"api_key"`
	Model     string        `toml:"model"`    // openai only
	BaseURL   string        `toml:"base_url"` // openai-compatible servers
	Timeout   time.Duration `toml:"timeout"`
	MockDelay time.Duration `toml:"mock_delay"`
}

type ServerConfig struct {
	Listen      string `toml:"listen"`
	OpenBrowser bool   `toml:"open_browser"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}
