// Package sshd serves the termchess client over SSH. Each session gets
// the client binary running under a pseudo-terminal, with window resizes
// forwarded.
package sshd

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"github.com/gliderlabs/ssh"
	"go.uber.org/zap"
)

// Config holds the server settings.
type Config struct {
	Addr        string
	HostKeyPath string
	ClientPath  string
	IdleTimeout time.Duration
}

// Server wraps the SSH listener.
type Server struct {
	srv        *ssh.Server
	clientPath string
	log        *zap.Logger
}

// New builds the server and verifies the client binary is reachable.
func New(cfg Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := exec.LookPath(cfg.ClientPath); err != nil {
		return nil, fmt.Errorf("sshd: client binary: %w", err)
	}
	s := &Server{clientPath: cfg.ClientPath, log: logger}
	srv := &ssh.Server{
		Addr:        cfg.Addr,
		IdleTimeout: cfg.IdleTimeout,
		Handler:     s.handle,
	}
	if cfg.HostKeyPath != "" {
		if err := srv.SetOption(ssh.HostKeyFile(cfg.HostKeyPath)); err != nil {
			return nil, fmt.Errorf("sshd: host key %s: %w", cfg.HostKeyPath, err)
		}
	}
	s.srv = srv
	return s, nil
}

func (s *Server) handle(sess ssh.Session) {
	ptyReq, winCh, isPty := sess.Pty()
	if !isPty {
		io.WriteString(sess, "an interactive terminal is required\n")
		sess.Exit(1)
		return
	}
	s.log.Info("session opened",
		zap.String("user", sess.User()),
		zap.String("addr", sess.RemoteAddr().String()))

	cmdCtx, cancel := context.WithCancel(sess.Context())
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, s.clientPath)
	cmd.Env = append(sess.Environ(), fmt.Sprintf("TERM=%s", ptyReq.Term))

	f, err := pty.Start(cmd)
	if err != nil {
		io.WriteString(sess, fmt.Sprintf("failed to start pseudo-terminal: %s\n", err))
		sess.Exit(1)
		return
	}
	defer f.Close()

	go func() {
		for win := range winCh {
			pty.Setsize(f, &pty.Winsize{
				Rows: uint16(win.Height),
				Cols: uint16(win.Width),
			})
		}
	}()

	go func() {
		io.Copy(f, sess)
	}()
	io.Copy(sess, f)
	cmd.Wait()

	s.log.Info("session closed", zap.String("user", sess.User()))
}

// ListenAndServe blocks serving SSH sessions.
func (s *Server) ListenAndServe() error { return s.srv.ListenAndServe() }

// Close stops the listener.
func (s *Server) Close() error { return s.srv.Close() }
