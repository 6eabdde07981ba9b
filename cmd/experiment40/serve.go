package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/experiment40/internal/accounts"
	"github.com/joestump/experiment40/internal/auth"
	"github.com/joestump/experiment40/internal/config"
	"github.com/joestump/experiment40/internal/db"
	"github.com/joestump/experiment40/internal/diagnostics"
	"github.com/joestump/experiment40/internal/handler"
	"github.com/joestump/experiment40/internal/i18n"
	"github.com/joestump/experiment40/internal/logger"
	"github.com/joestump/experiment40/internal/querycache"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report := diagnostics.Collect(cfg)
			diagnostics.LogStartup(log, report)

			database, err := db.New(ctx, cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(ctx, database, cfg.DB.Driver, log); err != nil {
				return err
			}

			bundle, err := i18n.NewBundle(cfg.DefaultLocale)
			if err != nil {
				return err
			}
			accountsClient, err := accounts.NewClient(cfg.API.URL, cfg.API.Timeout)
			if err != nil {
				return err
			}

			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)
			visitors := auth.NewRegistry(auth.RegistryConfig{
				TTL:    cfg.Cache.VisitorTTL,
				Logger: log,
				CacheOptions: []querycache.Option{
					querycache.WithStaleTime(cfg.Cache.StaleTime),
					querycache.WithLogger(log.Named("cache")),
				},
			})
			if cfg.Cache.VisitorTTL > 0 {
				go visitors.RunSweeper(ctx, sweepInterval(cfg.Cache.VisitorTTL))
			}

			router := handler.NewRouter(handler.Deps{
				Site:           handler.Site{Name: cfg.App.Name, Mode: report.Mode},
				SessionManager: sessionManager,
				AuthMiddleware: auth.NewMiddleware(sessionManager, visitors),
				Accounts:       accountsClient,
				Bundle:         bundle,
				Logger:         log,
				SecureCookies:  !cfg.InsecureCookies,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, srv, log)
		},
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sweepInterval checks for idle visitors a few times per TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Minute)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Dev:    cfg.Log.Dev,
		File:   cfg.Log.File,
		MaxAge: cfg.Log.MaxAge,
	})
}
