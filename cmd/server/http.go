package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/pkg/lifecycle"
)

type httpServer struct {
	srv     *http.Server
	logger  *slog.Logger
	timeout time.Duration
}

func newHTTPServer(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) *httpServer {
	logger = logger.With("system", "http")
	return &httpServer{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeoutDuration(),
			ReadHeaderTimeout: cfg.ReadTimeoutDuration(),
			WriteTimeout:      cfg.WriteTimeoutDuration(),
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger:  logger,
		timeout: cfg.ShutdownTimeoutDuration(),
	}
}

// Start binds the listener before returning so address errors surface to
// the caller. Request contexts derive from the lifecycle context, and the
// server drains on lifecycle shutdown.
func (s *httpServer) Start(lc *lifecycle.Coordinator) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.srv.BaseContext = func(net.Listener) context.Context { return lc.Context() }

	go s.serve(ln)
	lc.OnShutdown(func() { s.drain(lc.Context()) })
	return nil
}

func (s *httpServer) serve(ln net.Listener) {
	s.logger.Info("listening", "addr", ln.Addr().String())
	if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("serve failed", "error", err)
	}
}

func (s *httpServer) drain(done context.Context) {
	<-done.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown incomplete", "error", err)
		return
	}
	s.logger.Info("stopped")
}
