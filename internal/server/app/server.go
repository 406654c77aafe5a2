// Package app собирает репозиторий: хранилище, сервис, HTTP сервер и команды CLI
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/deltamirror/internal/config"
	"github.com/iudanet/deltamirror/internal/server/handlers"
	"github.com/iudanet/deltamirror/internal/server/middleware"
	"github.com/iudanet/deltamirror/internal/server/repository"
	"github.com/iudanet/deltamirror/internal/server/storage/sqlite"
	"github.com/iudanet/deltamirror/internal/server/watcher"
	"github.com/iudanet/deltamirror/internal/workspace"
)

// Server репозиторий с HTTP API
type Server struct {
	cfg     *config.ServerConfig
	logger  *slog.Logger
	store   *sqlite.Storage
	live    *workspace.Dir
	service *repository.Service
	limits  *middleware.RateLimits
	version string
}

// NewServer открывает хранилище и каталог живых файлов
func NewServer(ctx context.Context, cfg *config.ServerConfig, version string, logger *slog.Logger) (*Server, error) {
	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	live, err := workspace.New(cfg.LiveDir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	service := repository.NewService(store, live, repository.Options{
		WindowSize:   cfg.WindowSize,
		KeepPatches:  cfg.KeepPatches,
		MaxPatchSize: cfg.MaxPatchSize,
	}, logger)

	return &Server{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		live:    live,
		service: service,
		version: version,
	}, nil
}

// Service возвращает сервис репозитория
func (s *Server) Service() *repository.Service {
	return s.service
}

// Handler собирает маршруты и middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux,
		handlers.NewFilesHandler(s.logger, s.service),
		handlers.NewHealthHandler(s.logger, s.store.DB(), s.version),
		s.cfg.Admin,
	)

	if s.limits == nil {
		s.limits = middleware.NewRateLimits([]middleware.PathRateLimit{
			// полные файлы дороже патчей
			{Prefix: "/api/v1/files/", Rate: max(s.cfg.RateLimit/4, 1), Window: time.Minute},
		}, s.cfg.RateLimit, time.Minute, s.logger)
	}

	var h http.Handler = mux
	if s.cfg.RateLimit > 0 {
		h = s.limits.Middleware(h)
	}
	h = middleware.LoggingMiddleware(s.logger, "/api/v1/health")(h)
	h = middleware.RecoveryMiddleware(s.logger)(h)
	return middleware.RequestIDMiddleware(h)
}

// Run обслуживает HTTP до отмены ctx, затем корректно завершает сервер.
// При watch публикует изменения живых файлов автоматически.
func (s *Server) Run(ctx context.Context, watch bool) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		s.logger.Info("Repository listening", "addr", s.cfg.Address, "admin", s.cfg.Admin)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if watch {
		w := watcher.New(s.live, s.service, time.Duration(s.cfg.WatchDebounceMs)*time.Millisecond, s.logger)
		go func() {
			if err := w.Run(ctx); err != nil {
				errCh <- fmt.Errorf("watcher: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	s.logger.Info("Shutting down repository")
	shutdownCtx, stop := context.WithTimeout(context.Background(), time.Duration(s.cfg.ShutdownSec)*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Graceful shutdown failed", "error", err)
	}

	return runErr
}

// Close освобождает ресурсы
func (s *Server) Close() error {
	if s.limits != nil {
		s.limits.Stop()
	}
	return s.store.Close()
}
