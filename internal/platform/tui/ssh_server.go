package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// ErrUnknownGame is returned when the configured game is not registered.
var ErrUnknownGame = errors.New("unknown game")

// SSHServerConfig configures the tetris SSH server.
type SSHServerConfig struct {
	Address     string
	HostKeyPath string // Generated on first start; defaults to ~/.tetris/host_key
	DBPath      string // Empty disables the scoreboard
	GameID      string
	TickRate    int
	IdleTimeout time.Duration

	// Seed fixes the piece order of the first session. Later sessions use
	// Seed+n. Zero seeds every session from the clock.
	Seed int64
}

// DefaultSSHServerConfig returns the config used by the serve command.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.tetris/scores.db",
		GameID:      "tetris",
		TickRate:    core.DefaultTickRate,
		IdleTimeout: 30 * time.Minute,
	}
}

// hostKeyPath resolves where the host key lives and makes sure its
// directory exists.
func (c SSHServerConfig) hostKeyPath() (string, error) {
	path := c.HostKeyPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".tetris", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

// SSHServer serves one independent game per SSH session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger

	sessions atomic.Int64 // Started so far
	active   atomic.Int64
}

// NewSSHServer checks cfg, opens the score store and builds the wish server.
// A store that cannot be opened is logged and play goes on without scores.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if !registry.Exists(cfg.GameID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, cfg.GameID)
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultTickRate
	}

	keyPath, err := cfg.hostKeyPath()
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{
		config: cfg,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "tetris-ssh",
		}),
	}
	if cfg.DBPath != "" {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			srv.logger.Warn("scores disabled", "db", cfg.DBPath, "error", err)
		} else {
			srv.store = store
		}
	}

	// Middleware runs last to first
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.newProgram),
			srv.track,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(srv.logger, log.InfoLevel),
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

func (s *SSHServer) nextSeed() int64 {
	n := s.sessions.Add(1) - 1
	if s.config.Seed == 0 {
		return time.Now().UnixNano() + n
	}
	return s.config.Seed + n
}

// newProgram builds the model for one session. activeterm has already
// turned away sessions without a PTY.
func (s *SSHServer) newProgram(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     s.nextSeed(),
	}
	return NewSessionModel(s.store, s.config.GameID, cfg, sess.User()), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// track counts the players currently in a game.
func (s *SSHServer) track(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		n := s.active.Add(1)
		s.logger.Debug("player joined", "player", sess.User(), "active", n)
		defer func() {
			n := s.active.Add(-1)
			s.logger.Debug("player left", "player", sess.User(), "active", n)
		}()
		next(sess)
	}
}

// Active returns the number of sessions currently playing.
func (s *SSHServer) Active() int {
	return int(s.active.Load())
}

// ListenAndServe serves on the configured address until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "game", s.config.GameID)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
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
func (s *SSHServer) Serve(l net.Listener) error {
	err := s.server.Serve(l)
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown waits up to ten seconds for sessions to end, then closes the
// score store.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeStore()
	return err
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
