package config

import "time"

const (
	DefaultListen           = "127.0.0.1:8765"
	DefaultLibreTranslate   = "https://libretranslate.com"
	DefaultTranslateTimeout = 10 * time.Second
)

// DefaultConfig returns the configuration written on first run
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			Translation:    false,
			InputLanguage:  "",
			OutputLanguage: "",
			Speak:          true,
		},
		Translation: TranslationConfig{
			Provider: "libretranslate",
			Endpoint: DefaultLibreTranslate,
			Timeout:  DefaultTranslateTimeout,
		},
		Server: ServerConfig{
			Listen:      DefaultListen,
			OpenBrowser: false,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "desktop",
		},
	}
}
