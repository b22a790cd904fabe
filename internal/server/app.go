// Package server assembles the privmsg HTTP server: storage, handlers,
// middleware and lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lmateo/privmsg/internal/server/config"
	"github.com/lmateo/privmsg/internal/server/handlers"
	"github.com/lmateo/privmsg/internal/server/middleware"
	"github.com/lmateo/privmsg/internal/server/storage"
	"github.com/lmateo/privmsg/internal/server/storage/boltdb"
	"github.com/lmateo/privmsg/internal/server/storage/sqlite"
)

// App is the assembled server.
type App struct {
	logger  *slog.Logger
	cfg     *config.Config
	store   storage.Storage
	httpSrv *http.Server
}

// OpenStorage opens the backend selected by the configuration.
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendBolt:
		return boltdb.New(ctx, cfg.StoragePath)
	case config.BackendSQLite:
		return sqlite.New(ctx, cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// New builds the application with all routes wired.
func New(ctx context.Context, logger *slog.Logger, cfg *config.Config, version string) (*App, error) {
	store, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	jwtConfig := handlers.JWTConfig{
		Secret:          []byte(cfg.JWTSecret),
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}

	authHandler := handlers.NewAuthHandler(logger, store, store, store, store, jwtConfig)
	messageHandler := handlers.NewMessageHandler(logger, store, store, store)
	moderationHandler := handlers.NewModerationHandler(logger, store, store)
	healthHandler := handlers.NewHealthHandler(logger, version)

	authMW := middleware.AuthMiddleware(logger, jwtConfig)
	ipGate := middleware.IPGateMiddleware(logger, store)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	// The IP gate guards only the entry points; established sessions are
	// authorized by their tokens.
	mux.Handle("POST /api/v1/auth/register", ipGate(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", ipGate(http.HandlerFunc(authHandler.Login)))
	mux.Handle("GET /api/v1/session", ipGate(http.HandlerFunc(authHandler.Session)))
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.Handle("POST /api/v1/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	mux.Handle("GET /api/v1/users", authMW(http.HandlerFunc(messageHandler.Users)))
	mux.Handle("GET /api/v1/messages", authMW(http.HandlerFunc(messageHandler.List)))
	mux.Handle("POST /api/v1/messages", authMW(http.HandlerFunc(messageHandler.Send)))
	mux.Handle("POST /api/v1/blocks", authMW(http.HandlerFunc(moderationHandler.Block)))
	mux.Handle("POST /api/v1/reports", authMW(http.HandlerFunc(moderationHandler.Report)))

	rateLimits := []middleware.PathRateLimit{
		{Path: "/api/v1/auth/register", Rate: cfg.AuthRateLimit, Window: cfg.RateWindow},
		{Path: "/api/v1/auth/login", Rate: cfg.AuthRateLimit, Window: cfg.RateWindow},
	}

	var handler http.Handler = mux
	handler = middleware.RateLimitByPathMiddleware(rateLimits, cfg.RateLimit, cfg.RateWindow, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return &App{
		logger: logger,
		cfg:    cfg,
		store:  store,
		httpSrv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler exposes the HTTP handler, used by tests.
func (a *App) Handler() http.Handler {
	return a.httpSrv.Handler
}

// Run serves HTTP until the context is canceled, then shuts down
// gracefully and closes the storage.
func (a *App) Run(ctx context.Context) error {
	go a.sweepExpiredTokens(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", a.cfg.Addr, "storage", a.cfg.StorageBackend)
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeStore()
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := a.httpSrv.Shutdown(shutdownCtx)
	a.closeStore()
	return err
}

func (a *App) closeStore() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", "error", err)
	}
}

// sweepExpiredTokens drops expired refresh tokens once an hour.
func (a *App) sweepExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deleted, err := a.store.DeleteExpiredTokens(ctx)
			if err != nil {
				a.logger.Error("failed to delete expired tokens", "error", err)
				continue
			}
			if deleted > 0 {
				a.logger.Info("expired refresh tokens deleted", "count", deleted)
			}
		case <-ctx.Done():
			return
		}
	}
}
