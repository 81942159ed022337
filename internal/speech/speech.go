// Package speech models the platform speech engines as injected capabilities.
// A Recognizer creates Recognition handles; a Synthesizer plays utterances.
package speech

import (
	"errors"
	"fmt"
)

// EventKind identifies what a recognition handle reported
type EventKind string

const (
	Result EventKind = "result"
	Error  EventKind = "error"
	End    EventKind = "end"
)

// Error codes reported by platform recognizers
const (
	CodeAborted            = "aborted"
	CodeNoSpeech           = "no-speech"
	CodeAudioCapture       = "audio-capture"
	CodeNetwork            = "network"
	CodeNotAllowed         = "not-allowed"
	CodeServiceNotAllowed  = "service-not-allowed"
	CodeLanguageNotSupport = "language-not-supported"
)

// Event is a single recognizer callback
type Event struct {
	Kind       EventKind
	Transcript string // set for Result, the most recent result's best alternative
	IsFinal    bool   // set for Result
	Code       string // set for Error
}

// Options configures a recognition session
type Options struct {
	Locale         string
	InterimResults bool
	Continuous     bool
}

// Recognition is a single live recognizer instance.
type Recognition interface {
	// Start begins (or resumes after End) listening.
	Start() error

	// Stop asks the engine to stop and releases the handle. Events is closed
	// once the handle is released. Safe to call more than once.
	Stop() error

	// Events delivers result, error and end callbacks in order.
	Events() <-chan Event
}

// Recognizer constructs recognition handles
type Recognizer interface {
	NewRecognition(opts Options) (Recognition, error)
}

// Utterance is a unit of text submitted for playback
type Utterance struct {
	Text   string
	Locale string
}

// Synthesizer hands utterances to the platform speech engine.
// Speak returns once the utterance has been submitted, not when it finished playing.
type Synthesizer interface {
	Speak(u Utterance) error
}

// ErrUnavailable is returned when no speech engine is reachable
var ErrUnavailable = errors.New("speech engine unavailable")

// RecognitionError wraps an error code reported by the recognizer
type RecognitionError struct {
	Code string
}

func (e *RecognitionError) Error() string {
	if e == nil || e.Code == "" {
		return "speech recognition error"
	}
	return fmt.Sprintf("speech recognition error: %s", e.Code)
}

// IsBenign reports whether the error code is informational only.
// An aborted recognition is what the engine reports after a deliberate stop.
func IsBenign(code string) bool {
	return code == CodeAborted
}

// IsRecognitionError reports whether err carries a recognizer error code
func IsRecognitionError(err error) bool {
	var re *RecognitionError
	return errors.As(err, &re)
}
