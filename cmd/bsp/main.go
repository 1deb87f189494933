// Package main is the entry point for the bsp compile tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/bsp/cmd/bsp/commands"
	"go.trai.ch/bsp/internal/app"
	"go.trai.ch/bsp/internal/core/domain"
	_ "go.trai.ch/bsp/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App, components.Logger)

	if err := cli.Execute(ctx); err != nil {
		// A bare ErrCompileFailed reports an ERROR status already printed as the result.
		if err != domain.ErrCompileFailed { //nolint:errorlint // identity check on the sentinel
			components.Logger.Error(err)
		}
		return 1
	}
	return 0
}
