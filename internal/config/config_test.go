package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vaanihq/vaani/internal/language"
)

func setConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvTranslationAPIKey, "")
	t.Setenv(EnvOpenAIAPIKey, "")
	return dir
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	setConfigHome(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"valid languages by name", func(c *Config) {
			c.Session.Translation = true
			c.Session.InputLanguage = "Hindi"
			c.Session.OutputLanguage = "en"
		}, ""},
		{"unknown input language", func(c *Config) { c.Session.InputLanguage = "fr" }, "session.input_language"},
		{"unknown output language", func(c *Config) { c.Session.OutputLanguage = "Klingon" }, "session.output_language"},
		{"same languages", func(c *Config) {
			c.Session.InputLanguage = "kn"
			c.Session.OutputLanguage = "kn-IN"
		}, "must differ"},
		{"unknown provider", func(c *Config) { c.Translation.Provider = "babelfish" }, "unsupported translation.provider"},
		{"libretranslate without endpoint", func(c *Config) { c.Translation.Endpoint = "" }, "translation.endpoint"},
		{"libretranslate with bad endpoint", func(c *Config) { c.Translation.Endpoint = "localhost" }, "translation.endpoint"},
		{"openai without key", func(c *Config) { c.Translation.Provider = "openai" }, "OpenAI API key required"},
		{"openai with key", func(c *Config) {
			c.Translation.Provider = "openai"
			c.Translation.APIKey = "sk-test"
		}, ""},
		{"openai bad base url", func(c *Config) {
			c.Translation.Provider = "openai"
			c.Translation.APIKey = "sk-test"
			c.Translation.BaseURL = "::"
		}, "translation.base_url"},
		{"mock", func(c *Config) { c.Translation.Provider = "mock" }, ""},
		{"zero timeout", func(c *Config) { c.Translation.Timeout = 0 }, "translation.timeout"},
		{"negative mock delay", func(c *Config) { c.Translation.MockDelay = -time.Second }, "translation.mock_delay"},
		{"bad listen address", func(c *Config) { c.Server.Listen = "8765" }, "server.listen"},
		{"bad notification type", func(c *Config) { c.Notifications.Type = "email" }, "notifications.type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_OpenAIKeyFromEnv(t *testing.T) {
	setConfigHome(t)
	t.Setenv(EnvOpenAIAPIKey, "sk-env")

	cfg := DefaultConfig()
	cfg.Translation.Provider = "openai"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if got := cfg.ToTranslateConfig().APIKey; got != "sk-env" {
		t.Errorf("APIKey = %q, want sk-env", got)
	}
}

func TestConfig_ResolveAPIKey(t *testing.T) {
	setConfigHome(t)
	t.Setenv(EnvTranslationAPIKey, "vaani-key")
	t.Setenv(EnvOpenAIAPIKey, "openai-key")

	cfg := DefaultConfig()
	if got := cfg.ToTranslateConfig().APIKey; got != "vaani-key" {
		t.Errorf("env fallback = %q, want vaani-key", got)
	}

	cfg.Translation.APIKey = "file-key"
	if got := cfg.ToTranslateConfig().APIKey; got != "file-key" {
		t.Errorf("config key = %q, want file-key", got)
	}

	t.Setenv(EnvTranslationAPIKey, "")
	cfg.Translation.APIKey = ""
	if got := cfg.ToTranslateConfig().APIKey; got != "" {
		t.Errorf("libretranslate should not use OPENAI_API_KEY, got %q", got)
	}
}

func TestConfig_Load(t *testing.T) {
	t.Run("creates default config when none exists", func(t *testing.T) {
		dir := setConfigHome(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("loaded config is invalid: %v", err)
		}

		configPath := filepath.Join(dir, "vaani", "config.toml")
		info, err := os.Stat(configPath)
		if err != nil {
			t.Fatalf("Load() did not create config file: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		dir := setConfigHome(t)
		configPath := filepath.Join(dir, "vaani", "config.toml")
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			t.Fatal(err)
		}
		content := `[session]
translation = true
input_language = "Hindi"
output_language = "English"

[translation]
provider = "mock"
mock_delay = "250ms"
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !cfg.Session.Translation || cfg.Session.InputLanguage != "Hindi" {
			t.Errorf("session not decoded: %+v", cfg.Session)
		}
		if !cfg.Session.Speak {
			t.Error("speak should keep its default")
		}
		if cfg.Translation.MockDelay != 250*time.Millisecond {
			t.Errorf("mock_delay = %v", cfg.Translation.MockDelay)
		}
		if cfg.Translation.Timeout != DefaultTranslateTimeout {
			t.Errorf("timeout = %v, want default", cfg.Translation.Timeout)
		}
		if cfg.Server.Listen != DefaultListen {
			t.Errorf("listen = %q, want default", cfg.Server.Listen)
		}
	})

	t.Run("invalid toml", func(t *testing.T) {
		dir := setConfigHome(t)
		configPath := filepath.Join(dir, "vaani", "config.toml")
		_ = os.MkdirAll(filepath.Dir(configPath), 0755)
		if err := os.WriteFile(configPath, []byte("[session\ntranslation = "), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := Load(); err == nil {
			t.Error("Load() should fail on invalid TOML")
		}
	})
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadFile() = %v, want ErrConfigNotFound", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	setConfigHome(t)

	cfg := DefaultConfig()
	cfg.Session.Translation = true
	cfg.Session.InputLanguage = "Malayalam"
	cfg.Session.OutputLanguage = "Kannada"
	cfg.Session.Speak = false
	cfg.Session.FinalResultsOnly = true
	cfg.Translation.Provider = "openai"
	cfg.Translation.APIKey = `sk-"quoted"`
	cfg.Translation.Model = "gpt-4o"
	cfg.Translation.Timeout = 3 * time.Second
	cfg.Server.Listen = "127.0.0.1:9000"
	cfg.Server.OpenBrowser = true
	cfg.Notifications.Type = "log"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", *got, *cfg)
	}
}

func TestConfig_ToSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.Translation = true
	cfg.Session.InputLanguage = "hi-IN"
	cfg.Session.OutputLanguage = "english"

	sel := cfg.ToSelection()
	if !sel.Translation || sel.Input != language.Hindi || sel.Output != language.English {
		t.Errorf("ToSelection() = %+v", sel)
	}

	cfg.Session.InputLanguage = "unknown"
	if sel := cfg.ToSelection(); !sel.Input.IsNone() {
		t.Errorf("unknown language should be unselected, got %v", sel.Input)
	}
}

func TestConfig_ToSessionOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.Speak = false
	cfg.Session.FinalResultsOnly = true

	opts := cfg.ToSessionOptions()
	if opts.Speak || !opts.FinalResultsOnly {
		t.Errorf("ToSessionOptions() = %+v", opts)
	}
}

func TestGetConfigPath(t *testing.T) {
	dir := setConfigHome(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if want := filepath.Join(dir, "vaani", "config.toml"); path != want {
		t.Errorf("GetConfigPath() = %q, want %q", path, want)
	}
}
