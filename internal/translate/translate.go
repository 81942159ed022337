package translate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// Provider is a translation backend. Adapters report failures as errors;
// Client turns them into a pass-through of the original text.
type Provider interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Config holds translation provider configuration
type Config struct {
	Provider  string // "libretranslate", "openai", "mock"
	Endpoint  string
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	MockDelay time.Duration
}

// NewProvider creates a translation provider based on cfg.Provider
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "libretranslate":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("LibreTranslate endpoint required")
		}
		return NewLibreTranslateAdapter(cfg), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		return NewOpenAIAdapter(cfg), nil
	case "mock":
		return NewMockAdapter(cfg.MockDelay), nil
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", cfg.Provider)
	}
}

// Client translates recognized segments. It never returns an error and never
// retries: on any failure the original text is returned unchanged.
type Client struct {
	mu       sync.RWMutex
	provider Provider
	timeout  time.Duration
}

func NewClient(p Provider, timeout time.Duration) *Client {
	return &Client{provider: p, timeout: timeout}
}

// SetProvider swaps the backend, used when the config is reloaded
func (c *Client) SetProvider(p Provider, timeout time.Duration) {
	c.mu.Lock()
	c.provider = p
	c.timeout = timeout
	c.mu.Unlock()
}

func (c *Client) Translate(ctx context.Context, text, source, target string) string {
	if strings.TrimSpace(text) == "" || source == target {
		return text
	}

	c.mu.RLock()
	p, timeout := c.provider, c.timeout
	c.mu.RUnlock()

	if p == nil {
		log.Printf("Translate: no provider configured, passing text through")
		return text
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := p.Translate(ctx, text, source, target)
	if err != nil {
		log.Printf("Translate: %s->%s failed after %v: %v", source, target, time.Since(start), err)
		return text
	}
	if strings.TrimSpace(out) == "" {
		log.Printf("Translate: %s->%s returned empty text, passing original through", source, target)
		return text
	}

	log.Printf("Translate: %s->%s in %v: %q -> %q", source, target, time.Since(start), text, out)
	return out
}
