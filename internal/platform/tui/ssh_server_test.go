package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/wish/testsession"
	gossh "golang.org/x/crypto/ssh"
)

func newTestSSHServer(t *testing.T, cfg SSHServerConfig) *SSHServer {
	t.Helper()
	dir := t.TempDir()
	cfg.Address = "127.0.0.1:0"
	cfg.GameID = "tetris"
	if cfg.HostKeyPath == "" {
		cfg.HostKeyPath = filepath.Join(dir, "keys", "host_key")
	}
	srv, err := NewSSHServer(cfg)
	if err != nil {
		t.Fatalf("NewSSHServer() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown() })
	return srv
}

func TestNewSSHServerUnknownGame(t *testing.T) {
	cfg := DefaultSSHServerConfig()
	cfg.GameID = "pong"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host_key")
	if _, err := NewSSHServer(cfg); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("NewSSHServer() error = %v, expected ErrUnknownGame", err)
	}
}

func TestNewSSHServerOpensStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "scores.db")
	srv := newTestSSHServer(t, SSHServerConfig{DBPath: db})

	if srv.store == nil {
		t.Fatal("store = nil with a writable DBPath")
	}
	if srv.config.TickRate <= 0 {
		t.Errorf("TickRate = %d, expected the default", srv.config.TickRate)
	}
	if got := srv.Addr(); got != "127.0.0.1:0" {
		t.Errorf("Addr() = %q", got)
	}

	if err := srv.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if srv.store != nil {
		t.Error("store still open after Shutdown")
	}
}

func TestNewSSHServerWithoutStore(t *testing.T) {
	srv := newTestSSHServer(t, SSHServerConfig{})
	if srv.store != nil {
		t.Error("store opened without a DBPath")
	}
}

func TestHostKeyPathDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := SSHServerConfig{}.hostKeyPath()
	if err != nil {
		t.Fatalf("hostKeyPath() error = %v", err)
	}
	if want := filepath.Join(home, ".tetris", "host_key"); got != want {
		t.Errorf("hostKeyPath() = %q, expected %q", got, want)
	}
	if info, err := os.Stat(filepath.Dir(got)); err != nil || !info.IsDir() {
		t.Errorf("host key directory not created: %v", err)
	}
}

func TestSessionSeeds(t *testing.T) {
	srv := newTestSSHServer(t, SSHServerConfig{Seed: 100})
	for i := range 3 {
		if got := srv.nextSeed(); got != 100+int64(i) {
			t.Errorf("nextSeed() #%d = %d, expected %d", i, got, 100+i)
		}
	}
}

func TestSessionWithoutPTYIsRejected(t *testing.T) {
	srv := newTestSSHServer(t, SSHServerConfig{})

	sess := testsession.New(t, srv.server, &gossh.ClientConfig{User: "ada"})
	out, err := sess.Output("")
	if err == nil {
		t.Error("session without a PTY exited cleanly")
	}
	if string(out) != "Requires an active PTY\n" {
		t.Errorf("output = %q", out)
	}
	if n := srv.Active(); n != 0 {
		t.Errorf("Active() = %d, expected 0", n)
	}
}
