// termchess-sshd serves the termchess client over SSH.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/earther/termchess/pkg/sshd"
)

func main() {
	var (
		addr    = flag.String("addr", ":2222", "address to listen on")
		hostKey = flag.String("hostkey", defaultHostKey(), "SSH host key file")
		client  = flag.String("client", "termchess", "client binary served to sessions")
		idle    = flag.Duration("idle", 5*time.Minute, "idle session timeout")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	srv, err := sshd.New(sshd.Config{
		Addr:        *addr,
		HostKeyPath: *hostKey,
		ClientPath:  *client,
		IdleTimeout: *idle,
	}, logger)
	if err != nil {
		fatal(err)
	}

	logger.Info("listening", zap.String("addr", *addr))
	if err := srv.ListenAndServe(); err != nil {
		fatal(err)
	}
}

func defaultHostKey() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh", "id_rsa")
}

func fatal(err error) {
	color.New(color.FgRed).Fprintln(os.Stderr, err)
	os.Exit(1)
}
