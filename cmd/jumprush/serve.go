package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jump-rush/internal/physics"
	"github.com/vovakirdan/jump-rush/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagDataDir     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Jump Rush SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH user gets their own progression file and attempt history under
--data-dir, named after the SSH username.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.jumprush/host_key

Examples:
  jumprush serve                           # Listen on :23235 with auto-generated key
  jumprush serve --ssh :2222               # Listen on port 2222
  jumprush serve --host-key ./my_host_key  # Use specific host key
  jumprush serve --data-dir /srv/jumprush  # Keep player data elsewhere

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagDataDir, "data-dir", defaults.DataDir, "Directory for per-user progress and history")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(defaults.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagPreset, "preset", "", "Difficulty preset for every session: normal, easy, slow, fast")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr, "jumprush-ssh")
	cfg, easy := loadConfig(logger, flagPreset)

	pack, err := loadPack(cfg)
	if err != nil {
		fail("could not load levels: %v", err)
	}

	srvCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DataDir:     flagDataDir,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Config:      cfg,
		Pack:        pack,
		Catalog:     cosmeticCatalog(),
		Overrides:   physics.Overrides{Easy: easy},
	}

	server, err := tui.NewSSHServer(srvCfg, logger)
	if err != nil {
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting Jump Rush SSH server on %s\n", server.Addr())
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(server.Addr()))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fail("server: %v", err)
	}
}

func portOf(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return port
}
