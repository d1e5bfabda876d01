package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/flangeqc/flangeqc/internal/config"
	"github.com/flangeqc/flangeqc/internal/database"
	"github.com/flangeqc/flangeqc/internal/handlers"
	"github.com/flangeqc/flangeqc/internal/server"
	"github.com/flangeqc/flangeqc/internal/uploads"
	"github.com/flangeqc/flangeqc/internal/workflow"

	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// setup loads config, opens the database and brings the schema and the
// default admin up to date. Both commands start here.
func setup() (*config.Config, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cfg.DBDSN, cfg.DBConnectAttempts, cfg.Logger())
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := db.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return cfg, db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed the admin user, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()
			cfg.Logger().Info("migration complete")
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()
			log := cfg.Logger()

			up, err := uploads.NewStore(cfg.UploadDir, cfg.MaxUploadSize, log)
			if err != nil {
				return err
			}

			flanges := database.NewFlangeRepository(db)
			h := handlers.New(
				database.NewHierarchyStore(db),
				flanges,
				database.NewUserStore(db),
				workflow.New(flanges, cfg.RequiredPasses, log),
				up,
				log,
			)

			corsHandler := cors.New(server.CORSOptions(cfg.CORSOrigins))

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
				Handler:           corsHandler.Handler(server.NewRouter(cfg, h)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.WithField("addr", srv.Addr).Info("starting server")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return errors.Wrap(err, "server error")
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errors.Wrap(err, "shutdown")
			}
			return nil
		},
	}
}
