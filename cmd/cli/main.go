package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/mazeharness/internal/app"
	"github.com/vk/mazeharness/internal/cli"
)

// main is the entrypoint for the mazeharness application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Args[1:])
	stop()

	// The real main function handles errors and exit codes.
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFail)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) error {
	inv, shouldExit, err := cli.Parse(ctx, args, outW, nil)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	harness := app.NewApp(outW, app.Options{
		Config:           inv.Config,
		RequestFlagCount: inv.RequestFlagCount,
		RequestPath:      inv.RequestPath,
	})
	return cli.ExitFor(harness.Run(ctx))
}
