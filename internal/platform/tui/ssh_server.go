package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/jump-rush/internal/config"
	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/level"
	"github.com/vovakirdan/jump-rush/internal/physics"
	"github.com/vovakirdan/jump-rush/internal/progress"
	"github.com/vovakirdan/jump-rush/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.jumprush/host_key.
	HostKeyPath string

	// DataDir holds one save file and one history database per SSH user.
	DataDir string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	TickRate  int
	Config    config.Config
	Pack      *level.Pack
	Catalog   progress.Catalog
	Overrides physics.Overrides
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		DataDir:     "~/.jumprush/users",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Config:      config.DefaultConfig(),
	}
}

// SSHServer wraps a Wish SSH server that serves the game to every
// connecting user with their own progress.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger

	mu     sync.Mutex
	active map[string]bool // User data dirs with a live session
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "jumprush-ssh",
		})
	}
	if cfg.Pack == nil {
		return nil, errors.New("ssh: no level pack")
	}

	dataDir, err := config.ExpandHome(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("ssh: %w", err)
	}
	cfg.DataDir = dataDir

	srv := &SSHServer{
		config: cfg,
		logger: logger,
		active: make(map[string]bool),
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".jumprush", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.exclusiveMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

var unsafeUserChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// userDir returns the per-user data directory. Usernames are reduced to a
// safe file name.
func (s *SSHServer) userDir(user string) string {
	name := unsafeUserChars.ReplaceAllString(user, "_")
	if name == "" || name == "." || name == ".." {
		name = "anonymous"
	}
	return filepath.Join(s.config.DataDir, name)
}

// claim marks the user's data dir as in use. It fails if another session
// already holds it, since two stores on one save file overwrite each other.
func (s *SSHServer) claim(user string) (release func(), ok bool) {
	dir := s.userDir(user)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		s.active = make(map[string]bool)
	}
	if s.active[dir] {
		return nil, false
	}
	s.active[dir] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.active, dir)
			s.mu.Unlock()
		})
	}, true
}

// exclusiveMiddleware allows one session per user at a time.
func (s *SSHServer) exclusiveMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		release, ok := s.claim(sshSession.User())
		if !ok {
			s.logger.Warn("rejected second session", "user", sshSession.User())
			wish.Fatalln(sshSession, "You are already playing from another connection.")
			return
		}
		defer release()
		next(sshSession)
	}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	user := sshSession.User()
	dir := s.userDir(user)
	logger := s.logger.With("user", user)

	storeOpts := []progress.Option{
		progress.WithLogger(logger),
		progress.WithThreshold(s.config.Config.Progression.UnlockThreshold),
		progress.WithLeaderboardSize(s.config.Config.Progression.LeaderboardSize),
	}
	if s.config.Catalog != nil {
		storeOpts = append(storeOpts, progress.WithCatalog(s.config.Catalog))
	}
	store := progress.Load(filepath.Join(dir, "save.json"), storeOpts...)
	if store.PlayerName() == progress.DefaultPlayerName && user != "" {
		if err := store.SetPlayerName(user); err != nil {
			logger.Warn("could not set player name", "error", err)
		}
	}

	history, err := storage.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		logger.Warn("could not open history database", "error", err)
	} else {
		go func() {
			<-sshSession.Context().Done()
			history.Close()
		}()
	}

	model := NewApp(Options{
		Config: s.config.Config,
		Runtime: core.RuntimeConfig{
			ScreenW:  pty.Window.Width,
			ScreenH:  pty.Window.Height,
			TickRate: s.config.TickRate,
		},
		Pack:      s.config.Pack,
		Store:     store,
		History:   history,
		Logger:    logger,
		Overrides: s.config.Overrides,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "data", s.config.DataDir)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
