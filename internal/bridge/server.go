// Package bridge connects the daemon to the widget page. The page owns the
// browser speech engines; the bridge relays recognizer commands to it and its
// events back, and carries user intents and state snapshots.
package bridge

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/vaanihq/vaani/internal/language"
)

//go:embed web
var webFS embed.FS

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 64 * 1024
	sendBuffer = 64
)

// ErrNoPeer is returned when a message needs a connected page and none is
var ErrNoPeer = errors.New("no widget connected")

type Options struct {
	// OnIntent handles user actions from the page. A returned error is sent
	// back to that page as an error message.
	OnIntent func(Intent) error
	// InitialState supplies the snapshot pushed to freshly connected pages
	InitialState func() any
}

// Server serves the widget and owns its websocket peers. The most recently
// connected page acts as the speech engine.
type Server struct {
	opts     Options
	upgrader websocket.Upgrader
	router   *gin.Engine

	mu           sync.Mutex
	peers        map[*peer]struct{}
	engine       *peer
	recognitions map[string]*recognition
	lastState    any
}

func New(opts Options) *Server {
	s := &Server{
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the listener is bound to loopback; the page may be opened from any local origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		peers:        make(map[*peer]struct{}),
		recognitions: make(map[string]*recognition),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	page, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(fmt.Sprintf("embedded widget missing: %v", err))
	}

	router.GET("/", func(c *gin.Context) {
		c.FileFromFS("/", http.FS(page))
	})
	router.StaticFS("/static", http.FS(page))
	router.GET("/ws", s.handleWebSocket)

	api := router.Group("/api")
	{
		api.GET("/state", s.handleState)
		api.GET("/languages", handleLanguages)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "peers": s.PeerCount()})
		})
	}
	return router
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Bridge: shutdown error: %v", err)
		}
		s.closePeers()
	}()

	log.Printf("Bridge: widget available at http://%s/", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// BroadcastState pushes a snapshot to every page and remembers it for new ones
func (s *Server) BroadcastState(state any) {
	s.mu.Lock()
	s.lastState = state
	peers := make([]*peer, 0, len(s.peers))
	for p := range s.peers {
		peers = append(peers, p)
	}
	s.mu.Unlock()

	msg := Message{Type: TypeState, State: state}
	for _, p := range peers {
		p.send(msg)
	}
}

// PeerCount returns the number of connected pages
func (s *Server) PeerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

// HasEngine reports whether a page is available to run speech
func (s *Server) HasEngine() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine != nil
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentState())
}

func handleLanguages(c *gin.Context) {
	type entry struct {
		Name       string `json:"name"`
		Code       string `json:"code"`
		Locale     string `json:"locale"`
		NativeName string `json:"nativeName"`
	}
	langs := language.List()
	out := make([]entry, 0, len(langs))
	for _, l := range langs {
		out = append(out, entry{Name: l.Name, Code: l.Code, Locale: l.Locale, NativeName: l.NativeName})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) currentState() any {
	if s.opts.InitialState != nil {
		return s.opts.InitialState()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastState
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Bridge: websocket upgrade failed: %v", err)
		return
	}

	p := newPeer(conn)
	s.attach(p)
	log.Printf("Bridge: widget connected from %s", conn.RemoteAddr())

	go p.writeLoop()
	if state := s.currentState(); state != nil {
		p.send(Message{Type: TypeState, State: state})
	}

	s.readLoop(p)
	s.detach(p)
	p.close()
	log.Printf("Bridge: widget disconnected from %s", conn.RemoteAddr())
}

func (s *Server) attach(p *peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[p] = struct{}{}
	s.engine = p
}

// detach drops the peer and fails every recognition it was running
func (s *Server) detach(p *peer) {
	s.mu.Lock()
	delete(s.peers, p)
	if s.engine == p {
		s.engine = nil
		for other := range s.peers {
			s.engine = other
			break
		}
	}
	var orphaned []*recognition
	for id, r := range s.recognitions {
		if r.owner == p {
			orphaned = append(orphaned, r)
			delete(s.recognitions, id)
		}
	}
	s.mu.Unlock()

	for _, r := range orphaned {
		r.disconnect()
	}
}

func (s *Server) closePeers() {
	s.mu.Lock()
	peers := make([]*peer, 0, len(s.peers))
	for p := range s.peers {
		peers = append(peers, p)
	}
	s.mu.Unlock()

	for _, p := range peers {
		p.close()
	}
}

func (s *Server) readLoop(p *peer) {
	p.conn.SetReadLimit(maxMessage)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := p.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Bridge: read error: %v", err)
			}
			return
		}
		s.dispatch(p, msg)
	}
}

func (s *Server) dispatch(p *peer, msg Message) {
	switch msg.Type {
	case TypePing:
		p.send(Message{Type: TypePong})
	case TypeRecognizerResult, TypeRecognizerError, TypeRecognizerEnd:
		s.routeRecognizerEvent(msg)
	default:
		if !isIntent(msg.Type) {
			log.Printf("Bridge: ignoring unknown message type %q", msg.Type)
			p.send(Message{Type: TypeError, Error: "unknown message type: " + msg.Type})
			return
		}
		if s.opts.OnIntent == nil {
			return
		}
		if err := s.opts.OnIntent(Intent{Type: msg.Type, Value: msg.Value, Enabled: msg.Enabled}); err != nil {
			log.Printf("Bridge: %s rejected: %v", msg.Type, err)
			p.send(Message{Type: TypeError, Error: err.Error()})
		}
	}
}

// peer is one connected page. All writes go through the send channel.
type peer struct {
	conn      *websocket.Conn
	out       chan Message
	done      chan struct{}
	closeOnce sync.Once
}

func newPeer(conn *websocket.Conn) *peer {
	return &peer{
		conn: conn,
		out:  make(chan Message, sendBuffer),
		done: make(chan struct{}),
	}
}

// send queues msg; returns false when the peer is gone or too slow
func (p *peer) send(msg Message) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.out <- msg:
		return true
	case <-p.done:
		return false
	default:
		log.Printf("Bridge: send buffer full, dropping %s", msg.Type)
		return false
	}
}

func (p *peer) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.conn.Close()
	}()

	for {
		select {
		case <-p.done:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-p.out:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteJSON(msg); err != nil {
				log.Printf("Bridge: write error: %v", err)
				p.close()
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.close()
				return
			}
		}
	}
}

func (p *peer) close() {
	p.closeOnce.Do(func() { close(p.done) })
}
