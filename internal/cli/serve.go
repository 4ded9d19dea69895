package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"backoffice/internal/handler"
	"backoffice/internal/middleware"
	"backoffice/internal/obs"
	"backoffice/internal/repository"
	"backoffice/internal/service"
	"backoffice/internal/session"
)

func newServeCommand(version string) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), version, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run migrations and the permission sync before serving")
	return cmd
}

func serve(ctx context.Context, version string, autoMigrate bool) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	cfg := rt.cfg
	log := rt.log
	log.Info("starting server", "version", version, "mode", cfg.Server.Mode, "session_backend", cfg.Session.Backend)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	repos := repository.NewRepositories(rt.db)
	sessions, closeSessions, err := newSessionStore(ctx, cfg.Session.Backend, rt, repos)
	if err != nil {
		return err
	}
	defer closeSessions()

	metrics := obs.NewMetrics()
	metrics.SetBuildInfo(version)
	svc := service.NewServices(repos, sessions, cfg, metrics)

	if autoMigrate {
		if err := migrateAndSync(ctx, rt, svc.Permissions); err != nil {
			return err
		}
	}

	router := handler.NewRouter(handler.RouterConfig{
		Logger:         log,
		Metrics:        metrics,
		Services:       svc,
		Cookie:         middleware.CookieOptions{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
		PageSize:       cfg.Pagination.PageSize,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Swagger:        true,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return err
	}

	log.Info("server exited gracefully")
	return nil
}

func newSessionStore(ctx context.Context, backend string, rt *app, repos *repository.Repositories) (session.Store, func(), error) {
	if backend != "redis" {
		store := session.NewDBStore(repos.Sessions)
		if n, err := store.Purge(ctx); err != nil {
			rt.log.Warn("failed to purge expired sessions", "error", err)
		} else if n > 0 {
			rt.log.Info("purged expired sessions", "count", n)
		}
		return store, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     rt.cfg.Redis.Addr(),
		Password: rt.cfg.Redis.Password,
		DB:       rt.cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	rt.log.Info("redis session store connected", "addr", rt.cfg.Redis.Addr())
	return session.NewRedisStore(client), func() { _ = client.Close() }, nil
}
