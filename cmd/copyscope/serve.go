package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/copyscope/internal/server"
)

func newServeCmd() *cobra.Command {
	var host, port, keyPath string
	cmd := &cobra.Command{
		Use:   "serve <file>...",
		Short: "Serve files in copy mode over SSH",
		Long: `Serve captured output over SSH

Each SSH session gets its own copy mode viewer and paste buffers. A session
with no command opens the first file; "view <name>" opens another by its
base name. The server generates a host key if there is none.`,
		Example: `  # Serve two logs on port 2222
  copyscope serve build.log test.log

  # Open the second one
  ssh -p 2222 -t localhost view test.log`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(cmd.Context(), host, port, keyPath, args)
		},
	}
	cmd.Flags().StringVar(&port, "port", "2222", "SSH server port")
	cmd.Flags().StringVar(&host, "host", "localhost", "SSH server host")
	cmd.Flags().StringVar(&keyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
	return cmd
}

func runSSHServer(ctx context.Context, host, port, keyPath string, files []string) error {
	logger, closer, err := newLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("cannot serve %s: %w", f, err)
		}
	}
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !debugMode {
		// Without a log file the server reports to stderr.
		logger.SetLevel(log.InfoLevel)
	}
	return server.StartSSHServer(ctx, &server.SSHServerConfig{
		Host:    host,
		Port:    port,
		KeyPath: keyPath,
		Files:   files,
		Config:  cfg,
		Logger:  logger,
	})
}
