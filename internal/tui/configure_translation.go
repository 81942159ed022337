package tui

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/vaanihq/vaani/internal/config"
)

var translationProviders = []huh.Option[string]{
	huh.NewOption("LibreTranslate (self-hosted or libretranslate.com)", "libretranslate"),
	huh.NewOption("OpenAI-compatible chat model", "openai"),
	huh.NewOption("Mock (offline demo)", "mock"),
}

func editTranslation(cfg *config.Config) error {
	provider := cfg.Translation.Provider
	endpoint := cfg.Translation.Endpoint
	apiKey := cfg.Translation.APIKey
	model := cfg.Translation.Model
	baseURL := cfg.Translation.BaseURL
	timeout := cfg.Translation.Timeout.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Translation provider").
				Options(translationProviders...).
				Value(&provider),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("LibreTranslate endpoint").
				Placeholder(config.DefaultLibreTranslate).
				Validate(validateURL).
				Value(&endpoint),
		).WithHideFunc(func() bool { return provider != "libretranslate" }),
		huh.NewGroup(
			huh.NewInput().
				Title("Model").
				Description("Empty uses gpt-4o-mini").
				Value(&model),
			huh.NewInput().
				Title("Base URL").
				Description("Empty uses api.openai.com").
				Validate(validateURL).
				Value(&baseURL),
		).WithHideFunc(func() bool { return provider != "openai" }),
		huh.NewGroup(
			huh.NewInput().
				Title("API key").
				Description(apiKeyDescription(apiKey)).
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("Request timeout").
				Description("e.g. 5s, 10s").
				Validate(validateDuration).
				Value(&timeout),
		).WithHideFunc(func() bool { return provider == "mock" }),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Translation.Provider = provider
	cfg.Translation.Endpoint = strings.TrimSpace(endpoint)
	if provider == "libretranslate" && cfg.Translation.Endpoint == "" {
		cfg.Translation.Endpoint = config.DefaultLibreTranslate
	}
	cfg.Translation.APIKey = strings.TrimSpace(apiKey)
	cfg.Translation.Model = strings.TrimSpace(model)
	cfg.Translation.BaseURL = strings.TrimSpace(baseURL)
	if d, err := time.ParseDuration(timeout); err == nil {
		cfg.Translation.Timeout = d
	}
	return nil
}

func apiKeyDescription(current string) string {
	if current == "" {
		return fmt.Sprintf("Optional for LibreTranslate; or set %s", config.EnvTranslationAPIKey)
	}
	return "Current: " + maskAPIKey(current)
}

// validateURL accepts empty input; callers fill in defaults
func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http(s) URL")
	}
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a duration")
	}
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
