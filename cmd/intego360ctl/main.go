// Command intego360ctl is a terminal client for the Intego360 dashboard API.
// The process is a single client: tokens live in a credentials file and the
// session is restored once at start.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/intego360/intego-ui/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code) //nolint:forbidigo // CLI must propagate command failure to the shell
}

func run(ctx context.Context) int {
	// Diagnostics go to stderr so command output stays pipeable.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "intego360ctl:", err)
		return 1
	}

	a, err := newAppFromConfig(&cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "intego360ctl:", err)
		return 1
	}
	defer a.Close()

	root := newRootCmd(a)
	root.SetArgs(os.Args[1:])
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "intego360ctl:", err)
		return 1
	}
	return 0
}
