package cli

import (
	"context"
	"errors"
	"fintrack-server/src/api"
	"fintrack-server/src/config"
	"fintrack-server/src/db"
	"fintrack-server/src/db/memory"
	pgstore "fintrack-server/src/db/sql"
	"fintrack-server/src/logging"
	"fintrack-server/src/services"
	"fintrack-server/src/util"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	_ services.Store = (*pgstore.Store)(nil)
	_ services.Store = (*memory.Store)(nil)

	_ services.IdentityCache = (*db.IdentityCache)(nil)
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// openStore returns the configured store and a cleanup func.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.Store, func(), error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Warn("using in-memory store; data is lost on exit")
		return memory.New(), func() {}, nil
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("DB connection failed: %w", err)
	}
	if cfg.AutoMigrate {
		if err := db.RunMigrations(pool, db.MigrateUp); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("database migrations applied", logging.FieldComponent, logging.ComponentStorage)
	}
	return pgstore.NewStore(pool), pool.Close, nil
}

func runServe(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var cache services.IdentityCache
	if cfg.IdentityCacheTTL > 0 {
		identityCache, err := db.NewIdentityCache(cfg.IdentityCacheTTL)
		if err != nil {
			return err
		}
		defer identityCache.Close()
		cache = identityCache
	}

	tokens := util.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	router := api.NewRouter(
		api.NewServices(store, tokens, cache, cfg.BcryptCost),
		api.Options{Logger: logger, AllowedOrigins: cfg.AllowedOrigins, DemoMode: cfg.DemoMode},
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server running", "port", cfg.Port, "backend", cfg.StoreBackend, "demo", cfg.DemoMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
