package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"

	"github.com/flindersuni/xamlstyle/internal/cli"
	"github.com/flindersuni/xamlstyle/pkg/version"
)

func main() {
	// Flags read XAMLSTYLE_* variables, which a .env file may provide.
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("load .env", slog.Any("err", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = fang.Execute(ctx, cli.NewRootCmd(),
		fang.WithVersion(version.String()),
		fang.WithErrorHandler(cli.ErrorHandler),
	)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
