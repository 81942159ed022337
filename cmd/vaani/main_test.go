package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vaanihq/vaani/internal/language"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()
	want := []string{"serve", "toggle", "stop", "status", "version", "quit", "configure", "languages", "translate"}
	for _, name := range want {
		if _, _, err := root.Find([]string{name}); err != nil {
			t.Errorf("missing command %q: %v", name, err)
		}
	}
}

func TestTranslateCommandMock(t *testing.T) {
	out, err := runRoot(t, "translate", "--provider", "mock", "--from", "Hindi", "--to", "kn", "namaste", "duniya")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got := strings.TrimSpace(out); got != "namaste duniya translated to Kannada" {
		t.Errorf("output = %q", got)
	}
}

func TestTranslateCommandSameLanguage(t *testing.T) {
	out, err := runRoot(t, "translate", "--provider", "mock", "--from", "en", "--to", "en-US", "hello")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got := strings.TrimSpace(out); got != "hello" {
		t.Errorf("same-language translate should pass through, got %q", got)
	}
}

func TestTranslateCommandUnknownLanguage(t *testing.T) {
	if _, err := runRoot(t, "translate", "--from", "fr", "bonjour"); err == nil {
		t.Error("unknown --from should fail")
	}
}

func TestSendWithoutDaemon(t *testing.T) {
	if _, err := runRoot(t, "status"); err == nil {
		t.Error("status without a daemon should fail")
	}
}

func TestRenderLanguages(t *testing.T) {
	out := renderLanguages(language.List())
	for _, want := range []string{"LANGUAGE", "Hindi", "hi-IN", "Malayalam", "ml", language.Hindi.NativeName} {
		if !strings.Contains(out, want) {
			t.Errorf("languages output missing %q:\n%s", want, out)
		}
	}
}
