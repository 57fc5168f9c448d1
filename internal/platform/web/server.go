// Package web serves the engine over websockets. Every connection plays its
// own game; the server drives gravity and streams the merged board back.
package web

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"nhooyr.io/websocket"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/core"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// Msg is the wire envelope for both directions.
type Msg struct {
	T string         `json:"t"`           // type
	M map[string]any `json:"m,omitempty"` // payload
}

// Client commands.
const (
	CmdLeft     = "left"
	CmdRight    = "right"
	CmdRotate   = "rotate"
	CmdDrop     = "drop"
	CmdHardDrop = "hard_drop"
	CmdRestart  = "restart"
)

// ServerConfig holds configuration for the websocket server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// DBPath is the path to the scores database. Empty disables scores.
	DBPath string

	// Tetris supplies gravity, scoring and difficulty for every session.
	Tetris config.TetrisConfig

	// Seed seeds the first session's piece sequence; later sessions use
	// Seed+n. Zero seeds from the clock.
	Seed int64
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address: ":8080",
		DBPath:  "~/.tetris/scores.db",
		Tetris:  config.DefaultTetrisConfig(),
	}
}

// Server hosts one game per websocket connection.
type Server struct {
	config ServerConfig
	http   *http.Server
	store  *storage.Store
	logger *log.Logger

	// ctx is cancelled by Shutdown and parents every session.
	ctx    context.Context
	cancel context.CancelFunc
	live   sync.WaitGroup

	mu       sync.Mutex
	sessions int64
	closed   bool
}

// NewServer creates a websocket server with the given configuration.
func NewServer(cfg ServerConfig) (*Server, error) {
	if err := cfg.Tetris.Validate(); err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tetris-web",
	})

	srv := &Server{config: cfg, logger: logger}
	srv.ctx, srv.cancel = context.WithCancel(context.Background())
	if cfg.DBPath != "" {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("could not open scores database", "error", err)
		} else {
			srv.store = store
		}
	}

	srv.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, nil
}

// Handler returns the HTTP routes: /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe starts the server and blocks until SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting web server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		s.closeStore()
		return err
	}
	return s.Shutdown()
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	err := s.http.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections, ends every live session and waits
// for them before closing the score store. The HTTP server does not track
// hijacked websocket connections, so sessions are cancelled here.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()

	err := s.http.Shutdown(ctx)
	s.live.Wait()
	s.closeStore()
	return err
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}

func (s *Server) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// admit registers a new session and returns its seed. It fails once
// Shutdown has started.
func (s *Server) admit() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, false
	}
	s.live.Add(1)
	n := s.sessions
	s.sessions++
	if s.config.Seed == 0 {
		return time.Now().UnixNano() + n, true
	}
	return s.config.Seed + n, true
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	seed, ok := s.admit()
	if !ok {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.live.Done()

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}

	player := r.URL.Query().Get("name")
	if player == "" {
		player = storage.DefaultPlayer
	}

	sess := newSession(s, c, player, seed)
	s.logger.Info("client connected", "id", sess.id, "player", player, "remote", r.RemoteAddr)
	start := time.Now()

	// The session ends with the client or with the server
	ctx, stop := context.WithCancel(r.Context())
	defer stop()
	unlink := context.AfterFunc(s.ctx, stop)
	defer unlink()

	sess.run(ctx)

	s.logger.Info("client disconnected",
		"id", sess.id,
		"score", sess.engine.Score(),
		"duration", time.Since(start).Round(time.Second),
	)
}

// session is one connection's game. mu serializes gravity and client
// commands so the engine only ever sees one caller.
type session struct {
	srv    *Server
	conn   *websocket.Conn
	id     string
	player string
	send   chan []byte

	mu          sync.Mutex
	engine      *core.Engine
	difficulty  *config.DifficultyManager
	started     time.Time // Start of the current game
	interval    time.Duration
	intervalSet chan time.Duration
	saved       bool
}

func newSession(srv *Server, c *websocket.Conn, player string, seed int64) *session {
	sess := &session{
		srv:         srv,
		conn:        c,
		id:          randID(),
		player:      player,
		send:        make(chan []byte, 1),
		started:     time.Now(),
		difficulty:  config.NewDifficultyManager(srv.config.Tetris.Difficulty),
		intervalSet: make(chan time.Duration, 1),
	}
	rng := rand.New(rand.NewSource(seed))
	sess.engine = core.New(core.NewGenerator(rng),
		core.WithPointsPerLine(srv.config.Tetris.Scoring.PointsPerLine),
		core.WithObserver(sess.onEvent),
	)
	sess.interval = sess.dropInterval()
	return sess
}

func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.writeLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.gravityLoop(ctx)
	}()

	s.mu.Lock()
	s.pushState()
	s.mu.Unlock()

	s.readLoop(ctx)
	cancel()
	wg.Wait()

	// On shutdown the peer may never answer a close handshake
	if s.srv.ctx.Err() != nil {
		_ = s.conn.CloseNow()
		return
	}
	_ = s.conn.Close(websocket.StatusNormalClosure, "bye")
}

func (s *session) readLoop(ctx context.Context) {
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}
		var m Msg
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}

		s.mu.Lock()
		if s.apply(m.T) {
			s.pushState()
		}
		s.mu.Unlock()
	}
}

func (s *session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.send:
			if err := s.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

func (s *session) gravityLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case d := <-s.intervalSet:
			ticker.Reset(d)
		case <-ticker.C:
			s.mu.Lock()
			if !s.engine.GameOver() {
				s.engine.Tick()
				if s.srv.config.Tetris.Difficulty.Progression.Type == config.ProgressionTime {
					s.retime()
				}
				s.pushState()
			}
			s.mu.Unlock()
		}
	}
}

// apply runs one client command and reports whether state should be sent.
// Callers hold s.mu.
func (s *session) apply(cmd string) bool {
	switch cmd {
	case CmdLeft:
		s.engine.MoveLeft()
	case CmdRight:
		s.engine.MoveRight()
	case CmdRotate:
		s.engine.Rotate()
	case CmdDrop:
		s.engine.Tick()
	case CmdHardDrop:
		s.engine.HardDrop()
	case CmdRestart:
		s.engine.Restart()
	case "state":
	default:
		return false
	}
	return true
}

// onEvent runs inline under s.mu.
func (s *session) onEvent(evt core.Event) {
	switch evt.Type {
	case core.EventLocked:
		s.retime()
	case core.EventRestarted:
		s.started = time.Now()
		s.saved = false
		s.retime()
	case core.EventGameOver:
		s.saveScore()
	}
}

func (s *session) retime() {
	d := s.dropInterval()
	if d == s.interval {
		return
	}
	s.interval = d
	select {
	case <-s.intervalSet:
	default:
	}
	s.intervalSet <- d
}

func (s *session) dropInterval() time.Duration {
	p := config.Progress{Elapsed: time.Since(s.started)}
	if s.engine != nil {
		p.Lines = s.engine.Lines()
		p.Score = s.engine.Score()
	}
	return max(time.Millisecond, s.difficulty.DropInterval(s.srv.config.Tetris.Gravity, p))
}

func (s *session) saveScore() {
	if s.saved || s.srv.store == nil {
		return
	}
	s.saved = true
	rec := storage.ScoreRecord{
		GameID: "tetris",
		Player: s.player,
		Score:  s.engine.Score(),
		Lines:  s.engine.Lines(),
	}
	if lpl := s.srv.config.Tetris.Scoring.LinesPerLevel; lpl > 0 {
		rec.Level = rec.Lines / lpl
	}
	if _, err := s.srv.store.SaveScore(rec); err != nil {
		s.srv.logger.Warn("could not save score", "id", s.id, "error", err)
	}
}

// pushState queues a state frame. Every frame is a full state, so a frame
// the writer has not sent yet is replaced by the newer one.
// Callers hold s.mu, so the only other party on s.send is the writer.
func (s *session) pushState() {
	b, err := json.Marshal(Msg{T: "state", M: stateOf(s.engine)})
	if err != nil {
		return
	}
	select {
	case <-s.send:
	default:
	}
	s.send <- b
}

// stateOf builds the state payload from the engine.
func stateOf(e *core.Engine) map[string]any {
	view := e.MergedView()
	rows := make([]string, core.Height)
	colors := make([][]string, core.Height)
	for y := range core.Height {
		line := make([]byte, core.Width)
		cols := make([]string, core.Width)
		for x := range core.Width {
			cell := view.At(x, y)
			if cell.Filled {
				line[x] = '#'
				cols[x] = cell.Color.String()
			} else {
				line[x] = '.'
			}
		}
		rows[y] = string(line)
		colors[y] = cols
	}
	cur := e.Current()
	return map[string]any{
		"board":     rows,
		"colors":    colors,
		"current":   cur.Kind.String(),
		"x":         cur.X,
		"y":         cur.Y,
		"next":      e.Next().Kind.String(),
		"score":     e.Score(),
		"lines":     e.Lines(),
		"pieces":    e.Pieces(),
		"game_over": e.GameOver(),
	}
}

func randID() string {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return hex.EncodeToString(b[:])
}
