package bridge

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/vaanihq/vaani/internal/speech"
)

// CodeDisconnected is reported when the page running a recognition goes away
const CodeDisconnected = "disconnected"

// NewRecognition binds a recognition to the current engine page
func (s *Server) NewRecognition(opts speech.Options) (speech.Recognition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return nil, fmt.Errorf("%w: %w", speech.ErrUnavailable, ErrNoPeer)
	}
	r := &recognition{
		id:     uuid.NewString(),
		opts:   opts,
		owner:  s.engine,
		server: s,
		events: make(chan speech.Event, sendBuffer),
	}
	s.recognitions[r.id] = r
	return r, nil
}

// Speak asks the engine page to read u aloud
func (s *Server) Speak(u speech.Utterance) error {
	s.mu.Lock()
	engine := s.engine
	s.mu.Unlock()

	if engine == nil {
		return fmt.Errorf("%w: %w", speech.ErrUnavailable, ErrNoPeer)
	}
	if !engine.send(Message{Type: TypeSpeak, Text: u.Text, Lang: u.Locale}) {
		return fmt.Errorf("%w: widget not accepting messages", speech.ErrUnavailable)
	}
	return nil
}

func (s *Server) routeRecognizerEvent(msg Message) {
	s.mu.Lock()
	r := s.recognitions[msg.ID]
	s.mu.Unlock()

	if r == nil {
		log.Printf("Bridge: event %s for unknown recognition %q", msg.Type, msg.ID)
		return
	}

	var ev speech.Event
	switch msg.Type {
	case TypeRecognizerResult:
		ev = speech.Event{Kind: speech.Result, Transcript: msg.Transcript, IsFinal: msg.IsFinal}
	case TypeRecognizerError:
		ev = speech.Event{Kind: speech.Error, Code: msg.Error}
	case TypeRecognizerEnd:
		ev = speech.Event{Kind: speech.End}
	}
	r.deliver(ev)
}

func (s *Server) forget(id string) {
	s.mu.Lock()
	delete(s.recognitions, id)
	s.mu.Unlock()
}

// recognition is a speech.Recognition run by a page
type recognition struct {
	id     string
	opts   speech.Options
	owner  *peer
	server *Server

	mu       sync.Mutex
	events   chan speech.Event
	released bool
}

func (r *recognition) Start() error {
	r.mu.Lock()
	released := r.released
	r.mu.Unlock()
	if released {
		return fmt.Errorf("recognition %s already released", r.id)
	}

	ok := r.owner.send(Message{
		Type:           TypeRecognizerStart,
		ID:             r.id,
		Lang:           r.opts.Locale,
		InterimResults: r.opts.InterimResults,
		Continuous:     r.opts.Continuous,
	})
	if !ok {
		return fmt.Errorf("%w: widget not accepting messages", speech.ErrUnavailable)
	}
	return nil
}

func (r *recognition) Stop() error {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return nil
	}
	r.released = true
	close(r.events)
	r.mu.Unlock()

	r.server.forget(r.id)
	// the page may already be gone; nothing left to release then
	r.owner.send(Message{Type: TypeRecognizerStop, ID: r.id})
	return nil
}

func (r *recognition) Events() <-chan speech.Event {
	return r.events
}

// deliver never blocks: the consumer may be inside Stop
func (r *recognition) deliver(ev speech.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	select {
	case r.events <- ev:
	default:
		log.Printf("Bridge: recognition %s event buffer full, dropping %s", r.id, ev.Kind)
	}
}

func (r *recognition) disconnect() {
	r.deliver(speech.Event{Kind: speech.Error, Code: CodeDisconnected})
}
