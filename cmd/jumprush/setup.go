package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/jump-rush/internal/config"
	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/level"
	"github.com/vovakirdan/jump-rush/internal/progress"
	"github.com/vovakirdan/jump-rush/internal/storage"
)

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	lvl, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// openLogFile returns a logger that writes to ~/.jumprush/jumprush.log, so
// log lines never land on the alt screen. The returned closer may be nil.
func openLogFile() (*log.Logger, io.Closer) {
	path := config.UserPath("jumprush.log")
	if path == "" {
		return newLogger(io.Discard, "jumprush"), nil
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return newLogger(io.Discard, "jumprush"), nil
	}
	return newLogger(f, "jumprush"), f
}

// loadConfig reads tuning and applies a difficulty preset. It reports
// whether easy physics should start enabled.
func loadConfig(logger *log.Logger, preset string) (config.Config, bool) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		logger.Warn("could not load config, using defaults", "error", err)
	}

	easy := false
	if preset != "" {
		p := config.ParsePreset(preset)
		if p == "" {
			logger.Warn("unknown preset, using normal", "preset", preset)
		}
		easy = config.ApplyPreset(&cfg, p)
	}
	return cfg, easy
}

// loadPack loads the level pack from --levels or the built-in one.
func loadPack(cfg config.Config) (*level.Pack, error) {
	spawn := core.V(cfg.Player.SpawnX, cfg.Player.SpawnY)
	if flagLevelsDir == "" {
		return level.Builtin(spawn)
	}
	dir, err := config.ExpandHome(flagLevelsDir)
	if err != nil {
		return nil, err
	}
	return level.LoadDir(dir, spawn)
}

// openProgress loads the progression record from --save.
func openProgress(cfg config.Config, logger *log.Logger) *progress.Store {
	path, err := config.ExpandHome(flagSavePath)
	if err != nil {
		logger.Warn("could not resolve save path, progress will not be kept", "error", err)
		path = ""
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := []progress.Option{
		progress.WithLogger(logger),
		progress.WithRand(rand.New(rand.NewSource(seed))),
		progress.WithThreshold(cfg.Progression.UnlockThreshold),
		progress.WithLeaderboardSize(cfg.Progression.LeaderboardSize),
	}
	if c := cosmeticCatalog(); c != nil {
		opts = append(opts, progress.WithCatalog(c))
	}
	return progress.Load(path, opts...)
}

// cosmeticCatalog returns the --cosmetics directory catalog, or nil for the
// built-in one.
func cosmeticCatalog() progress.Catalog {
	if flagCosmetics == "" {
		return nil
	}
	dir, err := config.ExpandHome(flagCosmetics)
	if err != nil {
		return nil
	}
	return progress.DirCatalog{Dir: dir, Fallback: progress.BuiltinCatalog}
}

// openHistory opens the attempt history. The game still runs without it.
func openHistory(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
