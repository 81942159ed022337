package tui

import (
	"fmt"
	"strings"

	"github.com/vaanihq/vaani/internal/config"
)

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

func orUnset(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}

func formatSessionLabel(cfg *config.Config) string {
	if !cfg.Session.Translation {
		return fmt.Sprintf("Session: %s, no translation", orUnset(cfg.Session.InputLanguage))
	}
	return fmt.Sprintf("Session: %s -> %s", orUnset(cfg.Session.InputLanguage), orUnset(cfg.Session.OutputLanguage))
}

func formatTranslationLabel(cfg *config.Config) string {
	switch cfg.Translation.Provider {
	case "libretranslate":
		return "Translation: LibreTranslate at " + cfg.Translation.Endpoint
	case "openai":
		model := cfg.Translation.Model
		if model == "" {
			model = "default model"
		}
		return "Translation: OpenAI, " + model
	default:
		return "Translation: " + cfg.Translation.Provider
	}
}

func formatServerLabel(cfg *config.Config) string {
	return "Server: " + cfg.Server.Listen
}

func formatNotificationsLabel(cfg *config.Config) string {
	if !cfg.Notifications.Enabled {
		return "Notifications: disabled"
	}
	return "Notifications: " + cfg.Notifications.Type
}

func summary(cfg *config.Config) string {
	rows := [][2]string{
		{"Translation", fmt.Sprintf("%t", cfg.Session.Translation)},
		{"Input", orUnset(cfg.Session.InputLanguage)},
		{"Output", orUnset(cfg.Session.OutputLanguage)},
		{"Speak", fmt.Sprintf("%t", cfg.Session.Speak)},
		{"Provider", cfg.Translation.Provider},
	}
	if cfg.Translation.Provider == "libretranslate" {
		rows = append(rows, [2]string{"Endpoint", cfg.Translation.Endpoint})
	}
	if cfg.Translation.APIKey != "" {
		rows = append(rows, [2]string{"API key", maskAPIKey(cfg.Translation.APIKey)})
	}
	rows = append(rows,
		[2]string{"Timeout", cfg.Translation.Timeout.String()},
		[2]string{"Listen", cfg.Server.Listen},
		[2]string{"Notifications", strings.TrimPrefix(formatNotificationsLabel(cfg), "Notifications: ")},
	)

	var b strings.Builder
	b.WriteString(StyleHighlight.Render("Summary"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(StyleLabel.Render(fmt.Sprintf("%-14s", r[0])))
		b.WriteString(StyleMuted.Render(r[1]))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
