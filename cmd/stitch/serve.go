package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/setanarut/crossstitch/internal/handlers"
	"github.com/setanarut/crossstitch/internal/jobs"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port          string
		catalogPath   string
		interpolation string
		seed          uint64
		maxAge        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the pattern conversion HTTP API",
		Long: `Starts an HTTP API for converting uploaded images.

POST /api/convert starts a job and returns its id. Poll
/api/jobs/{id}/progress for messages, then fetch pattern.png, key.png or
legend.yaml under /api/jobs/{id}/. Finished jobs are dropped after --max-age.`,
		Example: `  # Start server on default port 8888
  stitch serve

  # Upload an image
  curl -F file=@parrot.png -F width=80 -F colors=16 localhost:8888/api/convert`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxAge <= 0 {
				return fmt.Errorf("--max-age must be positive, got %s", maxAge)
			}
			records, catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			opt, err := baseOptions(seed, 0, interpolation)
			if err != nil {
				return err
			}

			store := jobs.New()
			go store.SweepEvery(cmd.Context(), min(maxAge, 5*time.Minute), maxAge)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handlers.New(store, records, opt).Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Stitch API available", "addr", addr, "catalog", catalogName(catalogPath), "catalog_colors", len(catalog))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Thread catalog (.json, .yaml, .parquet); bundled DMC if empty")
	cmd.Flags().StringVar(&interpolation, "interpolation", "catmullrom", "Resampling filter (catmullrom, bilinear, nearest)")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "Seed for palette clustering")
	cmd.Flags().DurationVar(&maxAge, "max-age", time.Hour, "Drop finished jobs after this long")

	return cmd
}
