package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server until ctx is canceled, then shuts it down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := ":" + s.cfg.GetHTTPPort()
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "event", "http_listen", "addr", addr)
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("Shutting down HTTP server", "event", "http_shutdown")
	return s.E.Shutdown(shutdownCtx)
}
