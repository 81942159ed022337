package translate

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type stubProvider struct {
	out   string
	err   error
	calls atomic.Int32
	last  [3]string
	wait  time.Duration
}

func (s *stubProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	s.calls.Add(1)
	s.last = [3]string{text, source, target}
	if s.wait > 0 {
		select {
		case <-time.After(s.wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.out, s.err
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		check   func(Provider) bool
	}{
		{
			name:  "libretranslate",
			cfg:   Config{Provider: "libretranslate", Endpoint: "https://libretranslate.com"},
			check: func(p Provider) bool { _, ok := p.(*LibreTranslateAdapter); return ok },
		},
		{
			name:    "libretranslate without endpoint",
			cfg:     Config{Provider: "libretranslate"},
			wantErr: true,
		},
		{
			name:  "openai",
			cfg:   Config{Provider: "openai", APIKey: "sk-test"},
			check: func(p Provider) bool { _, ok := p.(*OpenAIAdapter); return ok },
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:  "mock",
			cfg:   Config{Provider: "mock"},
			check: func(p Provider) bool { _, ok := p.(*MockAdapter); return ok },
		},
		{
			name:    "unsupported",
			cfg:     Config{Provider: "babelfish"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(p) {
				t.Errorf("unexpected provider type %T", p)
			}
		})
	}
}

func TestClient_Success(t *testing.T) {
	p := &stubProvider{out: "hello"}
	c := NewClient(p, time.Second)

	got := c.Translate(context.Background(), "नमस्ते", "hi", "en")
	if got != "hello" {
		t.Errorf("Translate() = %q, want %q", got, "hello")
	}
	if p.last != [3]string{"नमस्ते", "hi", "en"} {
		t.Errorf("provider called with %v", p.last)
	}
}

func TestClient_FallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		p    *stubProvider
	}{
		{"provider error", &stubProvider{err: errors.New("connection refused")}},
		{"empty result", &stubProvider{out: "   "}},
		{"timeout", &stubProvider{out: "late", wait: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.p, 20*time.Millisecond)
			got := c.Translate(context.Background(), "hello", "en", "hi")
			if got != "hello" {
				t.Errorf("Translate() = %q, want original text", got)
			}
			if tt.p.calls.Load() != 1 {
				t.Errorf("provider called %d times, want exactly 1 (no retries)", tt.p.calls.Load())
			}
		})
	}
}

func TestClient_NoRequestWhenNothingToDo(t *testing.T) {
	p := &stubProvider{out: "x"}
	c := NewClient(p, 0)

	if got := c.Translate(context.Background(), "  ", "en", "hi"); got != "  " {
		t.Errorf("blank text: got %q", got)
	}
	if got := c.Translate(context.Background(), "hello", "en", "en"); got != "hello" {
		t.Errorf("same language: got %q", got)
	}
	if p.calls.Load() != 0 {
		t.Errorf("provider called %d times, want 0", p.calls.Load())
	}
}

func TestClient_NilProvider(t *testing.T) {
	c := NewClient(nil, 0)
	if got := c.Translate(context.Background(), "hello", "en", "hi"); got != "hello" {
		t.Errorf("Translate() = %q, want passthrough", got)
	}
}

func TestClient_SetProvider(t *testing.T) {
	c := NewClient(&stubProvider{out: "first"}, 0)
	c.SetProvider(&stubProvider{out: "second"}, time.Second)
	if got := c.Translate(context.Background(), "x", "en", "hi"); got != "second" {
		t.Errorf("Translate() = %q, want %q", got, "second")
	}
}

func TestMockAdapter(t *testing.T) {
	a := NewMockAdapter(0)
	got, err := a.Translate(context.Background(), "hello", "en", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello translated to Hindi" {
		t.Errorf("got %q", got)
	}

	got, _ = a.Translate(context.Background(), "hello", "en", "xx")
	if got != "hello translated to xx" {
		t.Errorf("unknown target: got %q", got)
	}
}

func TestMockAdapter_ContextCancellation(t *testing.T) {
	a := NewMockAdapter(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Translate(ctx, "hello", "en", "hi")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt("hi", "en")
	for _, want := range []string{"Hindi (hi)", "English (en)", "ONLY the translation"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q: %s", want, prompt)
		}
	}

	if !strings.Contains(BuildSystemPrompt("fr", "de"), "from fr to de") {
		t.Error("unknown codes should be used verbatim")
	}
}
