package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/vaanihq/vaani/internal/language"
)

// MockAdapter returns "<text> translated to <Language>" after a delay.
// Used for offline demos without a translation server.
type MockAdapter struct {
	delay time.Duration
}

func NewMockAdapter(delay time.Duration) *MockAdapter {
	return &MockAdapter{delay: delay}
}

func (a *MockAdapter) Translate(ctx context.Context, text, source, target string) (string, error) {
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	name := target
	if lang, ok := language.Parse(target); ok {
		name = lang.Name
	}
	return fmt.Sprintf("%s translated to %s", text, name), nil
}
