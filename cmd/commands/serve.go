package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/senyabanana/freelance-market/internal/db"
	"github.com/senyabanana/freelance-market/internal/handlers"
	"github.com/senyabanana/freelance-market/internal/repository"
	"github.com/senyabanana/freelance-market/internal/router"
	"github.com/senyabanana/freelance-market/internal/services"
	"github.com/senyabanana/freelance-market/internal/session"
	"github.com/senyabanana/freelance-market/internal/storage"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply migrations on start")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !skipMigrations {
		if err := db.MigrateUp(cfg.MigrationURL, cfg.PostgresConn); err != nil {
			return err
		}
		log.Info().Msg("db migrated successfully")
	}

	dbPool, err := db.InitDb(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer dbPool.Close()

	rdb, err := session.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()
	sessions := session.NewStore(rdb, cfg.SessionTTL)

	blobs, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	deps := services.Deps{
		Store:    repository.NewPostgresStore(dbPool),
		Blobs:    blobs,
		Location: loc,
		Logger:   log,
	}

	timeout := cfg.RequestTimeout
	routes := router.InitRoutes(router.Handlers{
		Auth:         handlers.NewAuthHandler(services.NewAccountService(deps), sessions, log, timeout, cfg.SessionTTL),
		Projects:     handlers.NewProjectHandler(services.NewProjectService(deps), log, timeout, loc),
		Bids:         handlers.NewBidHandler(services.NewBidService(deps), log, timeout, cfg.MaxUploadBytes),
		Deliverables: handlers.NewDeliverableHandler(services.NewDeliverableService(deps), log, timeout, cfg.MaxUploadBytes),
		Reviews:      handlers.NewReviewHandler(services.NewReviewService(deps), log, timeout),
		Sessions:     sessions,
	}, log)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           routes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ServerAddress).Msg("server is listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
