package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cataloguechat/internal/config"
	"cataloguechat/internal/handlers"
	"cataloguechat/internal/middleware"
	"cataloguechat/pkg/logging"
)

var (
	server  *http.Server
	_logger *logging.Logger

	// closed once server and _logger are set, so a signal arriving before
	// CreateServer finishes wiring cannot hit them while still nil
	ready = make(chan struct{})
)

// CreateServer blocks serving the API until shutdown.
func CreateServer(listenAddr string, h *handlers.RagHandler) {
	_logger = logging.NewLogger("Server")

	r := chi.NewRouter()
	r.Post("/rag", middleware.Wrap(h.ChatHandler))
	r.Get("/healthz", middleware.Wrap(h.HealthHandler))
	r.Handle("/metrics", promhttp.Handler())

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	close(ready)

	_logger.Info("Server is listening", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

// ShutDownHandler waits on the signal channel, then drains in-flight
// requests within the shutdown timeout before letting the process exit.
func ShutDownHandler(gracefulShutdown chan os.Signal, stopExecution chan bool) {
	state := <-gracefulShutdown
	<-ready
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}
		close(stopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully shut down")
	case <-ctx.Done():
		_logger.Info("Force shut down")
		os.Exit(1)
	}
}
