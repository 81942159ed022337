package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vaanihq/vaani/internal/speech"
)

// ErrStopped is returned by FakeRecognition.Start after Stop
var ErrStopped = errors.New("recognition already released")

// FakeRecognizer hands out FakeRecognition handles and remembers them
type FakeRecognizer struct {
	mu       sync.Mutex
	handles  []*FakeRecognition
	NewErr   error
	StartErr error
}

func (r *FakeRecognizer) NewRecognition(opts speech.Options) (speech.Recognition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.NewErr != nil {
		return nil, r.NewErr
	}
	h := &FakeRecognition{
		Opts:     opts,
		events:   make(chan speech.Event, 64),
		startErr: r.StartErr,
	}
	r.handles = append(r.handles, h)
	return h, nil
}

// Last returns the most recently created handle, or nil
func (r *FakeRecognizer) Last() *FakeRecognition {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.handles) == 0 {
		return nil
	}
	return r.handles[len(r.handles)-1]
}

// Count returns how many handles were created
func (r *FakeRecognizer) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// FakeRecognition emits synthetic recognizer events
type FakeRecognition struct {
	Opts speech.Options

	mu       sync.Mutex
	events   chan speech.Event
	starts   int
	stops    int
	released bool
	startErr error
}

func (h *FakeRecognition) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return ErrStopped
	}
	if h.startErr != nil {
		return h.startErr
	}
	h.starts++
	return nil
}

func (h *FakeRecognition) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stops++
	if !h.released {
		h.released = true
		close(h.events)
	}
	return nil
}

func (h *FakeRecognition) Events() <-chan speech.Event {
	return h.events
}

// FailNextStart makes the following Start calls fail with err
func (h *FakeRecognition) FailNextStart(err error) {
	h.mu.Lock()
	h.startErr = err
	h.mu.Unlock()
}

// Emit delivers an event unless the handle was released
func (h *FakeRecognition) Emit(ev speech.Event) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return false
	}
	h.events <- ev
	return true
}

func (h *FakeRecognition) Result(transcript string) bool {
	return h.Emit(speech.Event{Kind: speech.Result, Transcript: transcript, IsFinal: true})
}

func (h *FakeRecognition) Interim(transcript string) bool {
	return h.Emit(speech.Event{Kind: speech.Result, Transcript: transcript})
}

func (h *FakeRecognition) Fail(code string) bool {
	return h.Emit(speech.Event{Kind: speech.Error, Code: code})
}

func (h *FakeRecognition) End() bool {
	return h.Emit(speech.Event{Kind: speech.End})
}

// Starts returns how many times Start succeeded
func (h *FakeRecognition) Starts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.starts
}

// Stops returns how many times Stop was called
func (h *FakeRecognition) Stops() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stops
}

// Released reports whether Stop was called
func (h *FakeRecognition) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// FakeSynthesizer records every utterance
type FakeSynthesizer struct {
	mu         sync.Mutex
	utterances []speech.Utterance
	Err        error
}

func (s *FakeSynthesizer) Speak(u speech.Utterance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.utterances = append(s.utterances, u)
	return s.Err
}

func (s *FakeSynthesizer) Spoken() []speech.Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]speech.Utterance, len(s.utterances))
	copy(out, s.utterances)
	return out
}

// TranslateCall is one recorded FakeTranslator call
type TranslateCall struct {
	Text   string
	Source string
	Target string
}

// FakeTranslator records calls and delegates to Fn (identity when nil)
type FakeTranslator struct {
	mu    sync.Mutex
	calls []TranslateCall
	Fn    func(ctx context.Context, text, source, target string) string
}

func (f *FakeTranslator) Translate(ctx context.Context, text, source, target string) string {
	f.mu.Lock()
	f.calls = append(f.calls, TranslateCall{Text: text, Source: source, Target: target})
	fn := f.Fn
	f.mu.Unlock()

	if fn == nil {
		return text
	}
	return fn(ctx, text, source, target)
}

func (f *FakeTranslator) Calls() []TranslateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]TranslateCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// Eventually polls cond until it holds or the timeout expires
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, format string, args ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !cond() {
		t.Fatalf(format, args...)
	}
}

// Never asserts cond stays false for the whole duration
func Never(t *testing.T, d time.Duration, cond func() bool, format string, args ...any) {
	t.Helper()

	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			t.Fatalf(format, args...)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
