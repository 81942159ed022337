package notify

import (
	"log"

	"github.com/gen2brain/beeep"
)

const appName = "Vaani"

type Notifier interface {
	SessionStarted(detail string)
	SessionStopped()
	Error(msg string)
	// Unsupported raises a blocking alert: the widget cannot work at all.
	Unsupported(msg string)
}

// New returns the notifier for the configured type ("desktop", "log", "none").
func New(enabled bool, kind string) Notifier {
	if !enabled {
		return Nop{}
	}
	switch kind {
	case "desktop":
		return Desktop{}
	case "log":
		return Log{}
	default:
		return Nop{}
	}
}

type Desktop struct{}

func (Desktop) SessionStarted(detail string) {
	notify(appName+": Listening", detail)
}

func (Desktop) SessionStopped() {
	notify(appName+": Stopped", "Speech recognition stopped")
}

func (Desktop) Error(msg string) {
	notify(appName+": Error", msg)
}

func (Desktop) Unsupported(msg string) {
	if err := beeep.Alert(appName, msg, ""); err != nil {
		log.Printf("Failed to send alert: %v", err)
	}
}

func notify(title, body string) {
	if err := beeep.Notify(title, body, ""); err != nil {
		log.Printf("Failed to send notification: %v", err)
	}
}

// Log writes notifications to the standard logger
type Log struct{}

func (Log) SessionStarted(detail string) { log.Printf("%s: Listening - %s", appName, detail) }
func (Log) SessionStopped()              { log.Printf("%s: Stopped", appName) }
func (Log) Error(msg string)             { log.Printf("%s: Error - %s", appName, msg) }
func (Log) Unsupported(msg string)       { log.Printf("%s: ALERT - %s", appName, msg) }

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless builds.
type Nop struct{}

func (Nop) SessionStarted(string) {}
func (Nop) SessionStopped()       {}
func (Nop) Error(string)          {}
func (Nop) Unsupported(string)    {}
