package bridge

// Message is the single envelope exchanged with the widget page.
// Only the fields relevant to Type are set.
type Message struct {
	Type string `json:"type"`

	// recognizer commands and events
	ID             string `json:"id,omitempty"`
	Lang           string `json:"lang,omitempty"`
	InterimResults bool   `json:"interimResults,omitempty"`
	Continuous     bool   `json:"continuous,omitempty"`
	Transcript     string `json:"transcript,omitempty"`
	IsFinal        bool   `json:"isFinal,omitempty"`
	Error          string `json:"error,omitempty"`

	// speak command
	Text string `json:"text,omitempty"`

	// user intents
	Value   string `json:"value,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`

	// state push
	State any `json:"state,omitempty"`
}

// server -> page
const (
	TypeRecognizerStart = "recognizer.start"
	TypeRecognizerStop  = "recognizer.stop"
	TypeSpeak           = "speak"
	TypeState           = "state"
	TypeError           = "error"
)

// page -> server
const (
	TypeRecognizerResult = "recognizer.result"
	TypeRecognizerError  = "recognizer.error"
	TypeRecognizerEnd    = "recognizer.end"
	TypeUnsupported      = "unsupported"
	TypePing             = "ping"
	TypePong             = "pong"
)

// Intent types, page -> server
const (
	IntentTranslation = "select.translation"
	IntentInput       = "select.input"
	IntentOutput      = "select.output"
	IntentStart       = "session.start"
	IntentStop        = "session.stop"
	IntentUnsupported = TypeUnsupported
)

// Intent is a user action taken in the widget
type Intent struct {
	Type    string
	Value   string
	Enabled bool
}

func isIntent(t string) bool {
	switch t {
	case IntentTranslation, IntentInput, IntentOutput, IntentStart, IntentStop, IntentUnsupported:
		return true
	}
	return false
}
