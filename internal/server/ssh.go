// Package server serves the copy mode viewer over SSH.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/charmbracelet/ssh"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/copyscope/internal/buffer"
	"github.com/Gaurav-Gosain/copyscope/internal/config"
	"github.com/Gaurav-Gosain/copyscope/internal/copymode"
	"github.com/Gaurav-Gosain/copyscope/internal/ui"
)

// ErrNoFile is returned when a session names a file that is not served.
var ErrNoFile = errors.New("no such file")

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string
	// Files are the captures sessions may open. The first is opened when
	// the session runs no command.
	Files  []string
	Config *config.UserConfig
	Logger *log.Logger
}

// StartSSHServer initializes and runs the SSH server until ctx is done.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig) error {
	if len(cfg.Files) == 0 {
		return errors.New("no files to serve")
	}
	if cfg.Config == nil {
		cfg.Config = config.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	hostKeyPath := cfg.KeyPath
	if hostKeyPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		hostKeyPath = filepath.Join(homeDir, ".ssh", "copyscope_host_key")
	}

	h := &handler{cfg: cfg}
	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(h.teaHandler),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		cfg.Logger.Info("Starting SSH server", "addr", server.Addr, "files", len(cfg.Files))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("SSH server error: %w", err)
	case <-ctx.Done():
	}

	cfg.Logger.Info("Shutting down SSH server...")
	return server.Shutdown(context.Background())
}

type handler struct {
	cfg *SSHServerConfig
}

// teaHandler creates a viewer for each SSH session.
func (h *handler) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, active := sshSession.Pty(); !active {
		wish.Fatalln(sshSession, "copyscope requires a pty")
		return nil, nil
	}

	id := uuid.NewString()
	logger := h.cfg.Logger.With("session", id[:8], "user", sshSession.User())

	path, err := h.resolveFile(sshSession.Command())
	if err != nil {
		logger.Warn("rejected session", "err", err)
		wish.Fatalln(sshSession, err.Error())
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read capture", "path", path, "err", err)
		wish.Fatalln(sshSession, "failed to read "+filepath.Base(path))
		return nil, nil
	}
	logger.Info("session started", "file", path)

	model := ui.New(ui.Options{
		Config: h.cfg.Config,
		Source: &ui.Source{
			Data:         data,
			HistoryLimit: h.cfg.Config.HistoryLimit,
			Reload:       func() ([]byte, error) { return os.ReadFile(path) },
		},
		Buffers: buffer.NewStore(h.cfg.Config.BufferLimit),
		Title:   filepath.Base(path),
		Logger:  sessionLogger{logger},
	})
	return model, nil
}

// resolveFile picks the file a session asked for with "view <name>".
func (h *handler) resolveFile(cmd []string) (string, error) {
	action, args := parseSSHCommand(cmd)
	switch action {
	case "":
		return h.cfg.Files[0], nil
	case "view":
		if len(args) != 1 {
			return "", errors.New("usage: view <file>")
		}
		idx := slices.IndexFunc(h.cfg.Files, func(f string) bool {
			return filepath.Base(f) == args[0]
		})
		if idx < 0 {
			return "", fmt.Errorf("%w: %s", ErrNoFile, args[0])
		}
		return h.cfg.Files[idx], nil
	}
	return "", fmt.Errorf("unknown command %q", action)
}

// sessionLogger routes copy mode diagnostics to the session's debug log.
type sessionLogger struct{ l *log.Logger }

func (s sessionLogger) Printf(format string, v ...any) {
	s.l.Debugf(format, v...)
}

var _ copymode.Logger = sessionLogger{}

// parseSSHCommand parses SSH command arguments
func parseSSHCommand(cmd []string) (action string, args []string) {
	if len(cmd) == 0 {
		return "", nil
	}
	action = strings.ToLower(cmd[0])
	if len(cmd) > 1 {
		args = cmd[1:]
	}
	return action, args
}
