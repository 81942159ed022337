package daemon

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/vaanihq/vaani/internal/bridge"
	"github.com/vaanihq/vaani/internal/bus"
	"github.com/vaanihq/vaani/internal/config"
	"github.com/vaanihq/vaani/internal/deps"
	"github.com/vaanihq/vaani/internal/notify"
	"github.com/vaanihq/vaani/internal/selector"
	"github.com/vaanihq/vaani/internal/session"
	"github.com/vaanihq/vaani/internal/speech"
	"github.com/vaanihq/vaani/internal/translate"
)

const unsupportedMessage = "Speech recognition is not supported in this browser."

type Daemon struct {
	mu       sync.RWMutex
	cfg      *config.Config
	notifier *swappableNotifier
	pinned   bool

	ctx    context.Context
	cancel context.CancelFunc

	bridge     *bridge.Server
	translator *translate.Client
	controller *session.Controller
}

type Option func(*options)

type options struct {
	recognizer speech.Recognizer
	synth      speech.Synthesizer
	notifier   notify.Notifier
}

// WithRecognizer replaces the browser recognizer
func WithRecognizer(r speech.Recognizer) Option {
	return func(o *options) { o.recognizer = r }
}

// WithSynthesizer replaces the browser synthesizer
func WithSynthesizer(s speech.Synthesizer) Option {
	return func(o *options) { o.synth = s }
}

// WithNotifier pins the notifier; config reloads no longer replace it
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func New(cfg *config.Config, opts ...Option) *Daemon {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		cfg:        cfg,
		notifier:   &swappableNotifier{n: cfg.ToNotifier()},
		ctx:        ctx,
		cancel:     cancel,
		translator: translate.NewClient(nil, cfg.Translation.Timeout),
	}
	if o.notifier != nil {
		d.notifier.set(o.notifier)
		d.pinned = true
	}
	d.setProvider(cfg)

	d.bridge = bridge.New(bridge.Options{
		OnIntent:     d.handleIntent,
		InitialState: func() any { return newWidgetState(d.controller.Snapshot()) },
	})

	rec, synth := o.recognizer, o.synth
	if rec == nil {
		rec = d.bridge
	}
	if synth == nil {
		synth = d.bridge
	}

	d.controller = session.New(rec, synth, d.translator, d.notifier, cfg.ToSessionOptions())
	if err := d.controller.UpdateSelection(func(selector.Selection) (selector.Selection, error) {
		return cfg.ToSelection(), nil
	}); err != nil {
		log.Printf("Daemon: initial selection rejected: %v", err)
	}
	d.controller.Subscribe(func(snap session.Snapshot) {
		d.bridge.BroadcastState(newWidgetState(snap))
	})

	return d
}

// Controller exposes the session controller, mainly for tests
func (d *Daemon) Controller() *session.Controller {
	return d.controller
}

// WatchConfig applies every reloaded config from m
func (d *Daemon) WatchConfig(m *config.Manager) error {
	m.OnChange(d.ApplyConfig)
	return m.StartWatching(d.ctx)
}

// ApplyConfig swaps the translation provider, session options and notifier.
// The listen address only changes on restart.
func (d *Daemon) ApplyConfig(cfg *config.Config) {
	d.mu.Lock()
	old := d.cfg
	d.cfg = cfg
	d.mu.Unlock()

	d.setProvider(cfg)
	d.controller.SetOptions(cfg.ToSessionOptions())
	if !d.pinned {
		d.notifier.set(cfg.ToNotifier())
	}

	if old != nil && old.Server.Listen != cfg.Server.Listen {
		log.Printf("Daemon: server.listen changed to %s, restart the daemon to apply", cfg.Server.Listen)
	}
	log.Printf("Daemon: configuration applied (translation provider %s)", cfg.Translation.Provider)
}

func (d *Daemon) setProvider(cfg *config.Config) {
	p, err := translate.NewProvider(cfg.ToTranslateConfig())
	if err != nil {
		log.Printf("Daemon: translation disabled: %v", err)
		p = nil
	}
	d.translator.SetProvider(p, cfg.Translation.Timeout)
}

func (d *Daemon) config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

func (d *Daemon) Run() error {
	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return err
	}
	defer ln.Close()

	if err := bus.CreatePidFile(); err != nil {
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	httpLn, err := net.Listen("tcp", d.config().Server.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", d.config().Server.Listen, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			log.Printf("Received signal %v, shutting down gracefully", sig)
			d.cancel()
		case <-d.ctx.Done():
		}
	}()

	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- d.bridge.Serve(d.ctx, httpLn)
	}()

	url := "http://" + httpLn.Addr().String() + "/"
	if d.config().Server.OpenBrowser {
		openBrowser(url)
	}

	log.Printf("Daemon started, widget at %s, listening on socket", url)

	for {
		c, err := ln.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				log.Printf("Shutdown requested")
				return d.shutdown(serveErr)
			}
			log.Printf("Accept error: %v", err)
			d.cancel()
			_ = d.shutdown(serveErr)
			return fmt.Errorf("accept failed: %w", err)
		}
		go d.handle(c)
	}
}

func (d *Daemon) shutdown(serveErr <-chan error) error {
	if err := d.controller.Close(); err != nil {
		log.Printf("Daemon: stopping session: %v", err)
	}
	return <-serveErr
}

// Stop asks Run to return
func (d *Daemon) Stop() {
	d.cancel()
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		log.Printf("Client read error: %v", err)
		fmt.Fprintf(c, "ERR read_error: %v\n", err)
		return
	}
	if len(strings.TrimSpace(line)) == 0 {
		fmt.Fprint(c, "ERR empty\n")
		return
	}
	cmd := line[0]

	switch cmd {
	case bus.CmdToggle:
		if err := d.toggle(); err != nil {
			fmt.Fprintf(c, "ERR %v\n", err)
			return
		}
		fmt.Fprintf(c, "OK toggled status=%s\n", d.controller.Status())
	case bus.CmdStop:
		if err := d.controller.Stop(); err != nil {
			fmt.Fprintf(c, "ERR %v\n", err)
			return
		}
		fmt.Fprint(c, "OK stopped\n")
	case bus.CmdStatus:
		fmt.Fprintf(c, "STATUS %s\n", d.statusLine())
	case bus.CmdVersion:
		fmt.Fprintf(c, "STATUS proto=%s\n", bus.ProtoVer)
	case bus.CmdQuit:
		fmt.Fprint(c, "OK quitting\n")
		d.cancel()
	default:
		log.Printf("Unknown command: %c", cmd)
		fmt.Fprintf(c, "ERR unknown=%q\n", cmd)
	}
}

func (d *Daemon) statusLine() string {
	snap := d.controller.Snapshot()
	parts := []string{
		"status=" + string(snap.Status),
		fmt.Sprintf("translation=%t", snap.Translation),
		"input=" + orDash(snap.Selection.Input.Code),
		"output=" + orDash(snap.Selection.Output.Code),
		fmt.Sprintf("widgets=%d", d.bridge.PeerCount()),
	}
	if snap.SessionID != "" {
		parts = append(parts, "session="+snap.SessionID)
	}
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (d *Daemon) toggle() error {
	switch d.controller.Status() {
	case session.Listening:
		return d.controller.Stop()
	default:
		return d.start()
	}
}

func (d *Daemon) start() error {
	err := d.controller.Start(d.ctx, d.controller.Selection())
	if err == nil {
		return nil
	}
	log.Printf("Daemon: cannot start session: %v", err)
	if errors.Is(err, speech.ErrUnavailable) {
		go d.notifier.Error("Open the Vaani widget in a browser first")
	}
	return err
}

func (d *Daemon) handleIntent(in bridge.Intent) error {
	switch in.Type {
	case bridge.IntentTranslation:
		return d.controller.UpdateSelection(func(s selector.Selection) (selector.Selection, error) {
			return s.WithTranslation(in.Enabled), nil
		})
	case bridge.IntentInput:
		return d.controller.UpdateSelection(func(s selector.Selection) (selector.Selection, error) {
			return s.SelectInput(in.Value)
		})
	case bridge.IntentOutput:
		return d.controller.UpdateSelection(func(s selector.Selection) (selector.Selection, error) {
			return s.SelectOutput(in.Value)
		})
	case bridge.IntentStart:
		return d.start()
	case bridge.IntentStop:
		return d.controller.Stop()
	case bridge.IntentUnsupported:
		msg := in.Value
		if msg == "" {
			msg = unsupportedMessage
		}
		log.Printf("Daemon: widget reports speech recognition unsupported")
		go d.notifier.Unsupported(msg)
		return nil
	default:
		return fmt.Errorf("unknown intent %q", in.Type)
	}
}

func openBrowser(url string) {
	cmd := deps.OpenURLCommand(url)
	if cmd == nil {
		log.Printf("Daemon: no browser opener found (%s), open %s manually", deps.CheckBrowserOpener().Name, url)
		return
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Daemon: failed to open browser: %v", err)
		return
	}
	go func() { _ = cmd.Wait() }()
}
