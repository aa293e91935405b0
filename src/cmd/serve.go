package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fire-server/src/api"
	"fire-server/src/categories"
	"fire-server/src/db"
	"fire-server/src/db/local"
	dbsql "fire-server/src/db/sql"
	"fire-server/src/handlers"
	"fire-server/src/rates"
	"fire-server/src/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	localStore, err := local.Open(cfg.LocalDBPath)
	if err != nil {
		return err
	}
	defer localStore.Close()

	cache, err := db.NewCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	var (
		cloud *dbsql.Store
		users handlers.UserRepository = localStore
	)
	if cfg.DatabaseURL != "" {
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		cloud = dbsql.NewStore(pool)
		users = cloud
	} else {
		log.Warn().Str("path", cfg.LocalDBPath).Msg("DATABASE_URL not set, running on the local store only")
	}

	// a nil *dbsql.Store must not reach the facade as a non-nil interface
	var cloudRepo store.Repository
	if cloud != nil {
		cloudRepo = cloud
	}
	facade := store.NewFacade(cloudRepo, localStore, cache)
	sessions := store.NewSessions(facade, store.Options{
		Debounce:      cfg.SaveDebounce,
		AutoCash:      cfg.AutoCash,
		DefaultLocale: categories.ParseLocale(cfg.DefaultLocale),
	})
	defer sessions.FlushAll()

	if cloud != nil {
		go store.Watch(ctx, cloud, sessions)
	}

	rateProvider := rates.NewProvider(nil, cfg.RatesURL, cfg.RatesTTL, cfg.FallbackUSDRate, cache)
	router := api.NewRouter(cfg, users, sessions, rateProvider)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("demo", cfg.DemoMode).Msg("API server running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
