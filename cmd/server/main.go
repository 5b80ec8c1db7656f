package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nfrund/storefront/internal/app"
	"github.com/nfrund/storefront/internal/config"
	"github.com/nfrund/storefront/internal/logging"
	"github.com/nfrund/storefront/internal/server"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg.GetLogFormat(), cfg.GetLogLevel()))

	ctx, stop := server.ShutdownContext(context.Background())
	defer stop()

	a := app.New(cfg)
	runErr := a.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Close(closeCtx); err != nil {
		slog.Error("Failed to release resources", "error", err)
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		slog.Error("Server stopped", "error", runErr)
		os.Exit(1)
	}
	slog.Info("Server exited gracefully")
}
