package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/vaanihq/vaani/internal/notify"
	"github.com/vaanihq/vaani/internal/selector"
	"github.com/vaanihq/vaani/internal/speech"
)

type Status string

const (
	Idle      Status = "idle"
	Listening Status = "listening"
)

const (
	evStart   = "start"
	evRestart = "restart"
	evStop    = "stop"
	evFail    = "fail"
)

var (
	ErrAlreadyListening = errors.New("session already listening")
	ErrBusy             = errors.New("languages cannot change while listening")
)

// Translator turns a segment into the target language. Implementations
// return the original text when translation fails.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}

type Options struct {
	// Speak hands every applied translation to the synthesizer
	Speak bool
	// FinalResultsOnly ignores interim recognizer results
	FinalResultsOnly bool
}

// Snapshot is the session state as shown to the user
type Snapshot struct {
	SessionID      string             `json:"sessionId,omitempty"`
	Status         Status             `json:"status"`
	Translation    bool               `json:"translation"`
	InputLanguage  string             `json:"inputLanguage"`
	OutputLanguage string             `json:"outputLanguage"`
	Speaking       bool               `json:"isSpeaking"`
	RecognizedText string             `json:"recognizedText"`
	TranslatedText string             `json:"translatedText"`
	Error          string             `json:"error,omitempty"`
	Selection      selector.Selection `json:"-"`
}

// Controller runs one recognition session at a time:
// idle --start--> listening --restart--> listening --stop|fail--> idle
type Controller struct {
	recognizer speech.Recognizer
	synth      speech.Synthesizer
	translator Translator
	notifier   notify.Notifier
	opts       Options

	mu          sync.Mutex
	machine     *fsm.FSM
	sel         selector.Selection
	handle      speech.Recognition
	cancel      context.CancelFunc
	userStopped bool
	sessionID   string
	recognized  strings.Builder
	translated  string
	lastErr     string
	seq         uint64 // last segment sent for translation
	applied     uint64 // last segment whose translation was shown

	wg sync.WaitGroup

	pubMu     sync.Mutex
	nextSubID int
	listeners map[int]func(Snapshot)
}

func New(rec speech.Recognizer, synth speech.Synthesizer, tr Translator, n notify.Notifier, opts Options) *Controller {
	if n == nil {
		n = notify.Nop{}
	}
	c := &Controller{
		recognizer: rec,
		synth:      synth,
		translator: tr,
		notifier:   n,
		opts:       opts,
		listeners:  make(map[int]func(Snapshot)),
	}
	c.machine = fsm.NewFSM(
		string(Idle),
		fsm.Events{
			{Name: evStart, Src: []string{string(Idle)}, Dst: string(Listening)},
			{Name: evRestart, Src: []string{string(Listening)}, Dst: string(Listening)},
			{Name: evStop, Src: []string{string(Listening)}, Dst: string(Idle)},
			{Name: evFail, Src: []string{string(Listening)}, Dst: string(Idle)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Printf("Session: %s -> %s (%s)", e.Src, e.Dst, e.Event)
			},
		},
	)
	return c
}

// SetOptions replaces the options; takes effect for the next event
func (c *Controller) SetOptions(opts Options) {
	c.mu.Lock()
	c.opts = opts
	c.mu.Unlock()
}

func (c *Controller) Status() Status {
	return Status(c.machine.Current())
}

func (c *Controller) Selection() selector.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel
}

// UpdateSelection applies fn to the current selection. Rejected while listening.
func (c *Controller) UpdateSelection(fn func(selector.Selection) (selector.Selection, error)) error {
	c.mu.Lock()
	if c.handle != nil {
		c.mu.Unlock()
		return ErrBusy
	}
	next, err := fn(c.sel)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.sel = next
	c.mu.Unlock()

	c.publish()
	return nil
}

// Start begins a session with sel. ctx bounds the whole session, so it must
// outlive the call (pass the daemon context, not a request context).
func (c *Controller) Start(ctx context.Context, sel selector.Selection) error {
	if err := sel.Validate(); err != nil {
		return fmt.Errorf("cannot start: %w", err)
	}

	c.mu.Lock()
	if !c.machine.Can(evStart) {
		c.mu.Unlock()
		return ErrAlreadyListening
	}

	h, err := c.recognizer.NewRecognition(speech.Options{
		Locale:         sel.Input.Locale,
		InterimResults: true,
		Continuous:     true,
	})
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("create recognition: %w", err)
	}
	if err := h.Start(); err != nil {
		_ = h.Stop()
		c.mu.Unlock()
		return fmt.Errorf("start recognition: %w", err)
	}

	sessCtx, cancel := context.WithCancel(ctx)
	if err := c.machine.Event(sessCtx, evStart); err != nil {
		cancel()
		_ = h.Stop()
		c.mu.Unlock()
		return fmt.Errorf("start session: %w", err)
	}

	c.sel = sel
	c.handle = h
	c.cancel = cancel
	c.userStopped = false
	c.sessionID = uuid.NewString()
	c.recognized.Reset()
	c.translated = ""
	c.lastErr = ""
	c.seq, c.applied = 0, 0
	id := c.sessionID

	c.wg.Add(1)
	go c.run(sessCtx, h, id)
	c.mu.Unlock()

	log.Printf("Session: %s started, input=%s translation=%v output=%s", id, sel.Input.Locale, sel.Translation, sel.Output.Locale)
	go c.notifier.SessionStarted(describe(sel))
	c.publish()
	return nil
}

// Stop ends the session on user request. Safe to call when idle.
func (c *Controller) Stop() error {
	c.mu.Lock()
	c.userStopped = true
	if c.handle == nil {
		c.mu.Unlock()
		return nil
	}
	id := c.sessionID
	h, cancel := c.teardownLocked(evStop)
	c.mu.Unlock()

	err := h.Stop()
	cancel()

	log.Printf("Session: %s stopped by user", id)
	go c.notifier.SessionStopped()
	c.publish()

	if err != nil {
		return fmt.Errorf("stop recognition: %w", err)
	}
	return nil
}

// Close stops the session and waits for its goroutines
func (c *Controller) Close() error {
	err := c.Stop()
	c.wg.Wait()
	return err
}

// Speak hands text to the synthesizer. Fire and forget: failures are only logged.
func (c *Controller) Speak(text, locale string) {
	if c.synth == nil || strings.TrimSpace(text) == "" {
		return
	}
	if err := c.synth.Speak(speech.Utterance{Text: text, Locale: locale}); err != nil {
		log.Printf("Session: speak failed: %v", err)
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := Status(c.machine.Current())
	return Snapshot{
		SessionID:      c.sessionID,
		Status:         status,
		Translation:    c.sel.Translation,
		InputLanguage:  c.sel.Input.Name,
		OutputLanguage: c.sel.Output.Name,
		Speaking:       status == Listening,
		RecognizedText: c.recognized.String(),
		TranslatedText: c.translated,
		Error:          c.lastErr,
		Selection:      c.sel,
	}
}

// Subscribe registers fn to receive a snapshot after every change.
// fn runs synchronously and must not call back into Subscribe.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.pubMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.listeners[id] = fn
	c.pubMu.Unlock()

	return func() {
		c.pubMu.Lock()
		delete(c.listeners, id)
		c.pubMu.Unlock()
	}
}

func (c *Controller) publish() {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	if len(c.listeners) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, fn := range c.listeners {
		fn(snap)
	}
}

func (c *Controller) run(ctx context.Context, h speech.Recognition, id string) {
	defer c.wg.Done()

	events := h.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case speech.Result:
				c.onResult(ctx, h, id, ev)
			case speech.End:
				c.onEnd(ctx, h, id)
			case speech.Error:
				c.onError(h, id, ev.Code)
			default:
				log.Printf("Session: ignoring unknown event %q", ev.Kind)
			}
		}
	}
}

func (c *Controller) onResult(ctx context.Context, h speech.Recognition, id string, ev speech.Event) {
	c.mu.Lock()
	if !c.currentLocked(h, id) || strings.TrimSpace(ev.Transcript) == "" {
		c.mu.Unlock()
		return
	}
	if c.opts.FinalResultsOnly && !ev.IsFinal {
		c.mu.Unlock()
		return
	}

	c.recognized.WriteString(ev.Transcript)
	if !endsWithSpace(ev.Transcript) {
		c.recognized.WriteByte(' ')
	}

	sel := c.sel
	var seq uint64
	if sel.Translation {
		c.seq++
		seq = c.seq
	}
	c.mu.Unlock()

	c.publish()

	if seq > 0 {
		c.wg.Add(1)
		go c.translateSegment(ctx, id, seq, strings.TrimSpace(ev.Transcript), sel)
	}
}

func (c *Controller) onEnd(ctx context.Context, h speech.Recognition, id string) {
	c.mu.Lock()
	if !c.currentLocked(h, id) || c.userStopped {
		c.mu.Unlock()
		return
	}
	if err := c.machine.Event(ctx, evRestart); err != nil && !isNoTransition(err) {
		c.mu.Unlock()
		log.Printf("Session: cannot restart: %v", err)
		return
	}
	c.mu.Unlock()

	log.Printf("Session: %s recognizer ended, restarting", id)
	if err := h.Start(); err != nil {
		log.Printf("Session: %s restart failed: %v", id, err)
		c.fail(h, id, fmt.Sprintf("restart failed: %v", err))
	}
}

func (c *Controller) onError(h speech.Recognition, id string, code string) {
	if speech.IsBenign(code) {
		log.Printf("Session: %s recognition aborted", id)
		c.fail(h, id, "")
		return
	}

	log.Printf("Session: %s recognition error: %s", id, code)
	c.fail(h, id, (&speech.RecognitionError{Code: code}).Error())
}

// fail ends the session after a recognizer error. An empty msg means the
// ending was benign and is not reported as an error.
func (c *Controller) fail(h speech.Recognition, id string, msg string) {
	c.mu.Lock()
	if !c.currentLocked(h, id) {
		c.mu.Unlock()
		return
	}
	c.lastErr = msg
	handle, cancel := c.teardownLocked(evFail)
	c.mu.Unlock()

	if err := handle.Stop(); err != nil {
		log.Printf("Session: releasing recognizer: %v", err)
	}
	cancel()

	if msg != "" {
		go c.notifier.Error(msg)
	} else {
		go c.notifier.SessionStopped()
	}
	c.publish()
}

func (c *Controller) translateSegment(ctx context.Context, id string, seq uint64, text string, sel selector.Selection) {
	defer c.wg.Done()

	out := c.translator.Translate(ctx, text, sel.Input.Code, sel.Output.Code)

	c.mu.Lock()
	if c.sessionID != id || c.handle == nil || ctx.Err() != nil {
		c.mu.Unlock()
		log.Printf("Session: dropping translation of segment %d from ended session %s", seq, id)
		return
	}
	if seq <= c.applied {
		c.mu.Unlock()
		log.Printf("Session: dropping translation of segment %d, segment %d already shown", seq, c.applied)
		return
	}
	c.applied = seq
	c.translated = out
	speak := c.opts.Speak
	c.mu.Unlock()

	c.publish()

	if speak {
		c.Speak(out, sel.Output.Locale)
	}
}

func (c *Controller) currentLocked(h speech.Recognition, id string) bool {
	return c.handle != nil && c.handle == h && c.sessionID == id
}

// teardownLocked moves the machine to idle and detaches the handle.
// The caller stops the handle and cancels the context after unlocking.
func (c *Controller) teardownLocked(event string) (speech.Recognition, context.CancelFunc) {
	h, cancel := c.handle, c.cancel
	c.handle, c.cancel = nil, nil
	if err := c.machine.Event(context.Background(), event); err != nil && !isNoTransition(err) {
		log.Printf("Session: %s transition failed: %v", event, err)
	}
	return h, cancel
}

func isNoTransition(err error) bool {
	var nt fsm.NoTransitionError
	return errors.As(err, &nt)
}

func endsWithSpace(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	return unicode.IsSpace(r[len(r)-1])
}

func describe(sel selector.Selection) string {
	if sel.Translation {
		return fmt.Sprintf("%s -> %s", sel.Input, sel.Output)
	}
	return sel.Input.String()
}
