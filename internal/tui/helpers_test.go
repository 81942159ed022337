package tui

import (
	"strings"
	"testing"

	"github.com/vaanihq/vaani/internal/config"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "***"},
		{"short", "***"},
		{"sk-abcdefghijklmnop", "sk-abcd...mnop"},
	}
	for _, tt := range tests {
		if got := maskAPIKey(tt.key); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestOutputLanguageOptionsExcludeInput(t *testing.T) {
	opts := outputLanguageOptions("hi")
	// "choose in the widget" plus three languages
	if len(opts) != 4 {
		t.Fatalf("got %d options, want 4", len(opts))
	}
	for _, o := range opts {
		if o.Value == "hi" {
			t.Error("output options must not contain the input language")
		}
	}

	if len(outputLanguageOptions("")) != 5 {
		t.Error("no input should list every language")
	}
}

func TestValidators(t *testing.T) {
	if err := validateURL(""); err != nil {
		t.Errorf("empty URL should be accepted: %v", err)
	}
	if err := validateURL("ftp://example.com"); err == nil {
		t.Error("non-http URL should be rejected")
	}
	if err := validateURL("http://localhost:5000"); err != nil {
		t.Errorf("valid URL rejected: %v", err)
	}

	if err := validateDuration("10s"); err != nil {
		t.Errorf("10s rejected: %v", err)
	}
	for _, bad := range []string{"", "ten", "-1s", "0s"} {
		if err := validateDuration(bad); err == nil {
			t.Errorf("validateDuration(%q) should fail", bad)
		}
	}

	if err := validateListen("127.0.0.1:8765"); err != nil {
		t.Errorf("valid listen rejected: %v", err)
	}
	if err := validateListen("8765"); err == nil {
		t.Error("port without host should be rejected")
	}
}

func TestLabelsAndSummary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Session.Translation = true
	cfg.Session.InputLanguage = "Hindi"
	cfg.Translation.APIKey = "sk-abcdefghijklmnop"

	if got := formatSessionLabel(cfg); got != "Session: Hindi -> not set" {
		t.Errorf("session label = %q", got)
	}
	if got := formatTranslationLabel(cfg); !strings.Contains(got, "LibreTranslate") {
		t.Errorf("translation label = %q", got)
	}

	s := summary(cfg)
	if strings.Contains(s, "sk-abcdefghijklmnop") {
		t.Error("summary must not show the full API key")
	}
	if !strings.Contains(s, "sk-abcd...mnop") {
		t.Error("summary should show the masked key")
	}
}

func TestLogo(t *testing.T) {
	logo := Logo()
	for _, line := range strings.Split(strings.Trim(logoASCII, "\n"), "\n") {
		if !strings.Contains(logo, strings.TrimRight(line, " ")) {
			t.Errorf("logo missing line %q", line)
		}
	}
}
