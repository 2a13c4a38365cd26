package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"
)

// run starts app, blocks until ctx is cancelled or app asks to shut down, and
// returns the process exit code.
func run(ctx context.Context, app *fx.App) int {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Error("betacycle failed to start", slog.String("error", err.Error()))
		return 1
	}

	code := 0
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		code = sig.ExitCode
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		log.Error("betacycle failed to stop cleanly", slog.String("error", err.Error()))
		return 1
	}
	return code
}
