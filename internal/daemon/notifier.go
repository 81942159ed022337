package daemon

import (
	"sync"

	"github.com/vaanihq/vaani/internal/notify"
)

// swappableNotifier lets a config reload replace the notifier under a
// controller that already holds a reference to it
type swappableNotifier struct {
	mu sync.RWMutex
	n  notify.Notifier
}

func (s *swappableNotifier) set(n notify.Notifier) {
	s.mu.Lock()
	s.n = n
	s.mu.Unlock()
}

func (s *swappableNotifier) get() notify.Notifier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.n
}

func (s *swappableNotifier) SessionStarted(detail string) { s.get().SessionStarted(detail) }
func (s *swappableNotifier) SessionStopped()              { s.get().SessionStopped() }
func (s *swappableNotifier) Error(msg string)             { s.get().Error(msg) }
func (s *swappableNotifier) Unsupported(msg string)       { s.get().Unsupported(msg) }
