package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/taskreview/internal/api"
	"github.com/joescharf/taskreview/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing the review API.
By default it listens on port 8000. Use --port to change it.

Routes:
  GET  /health
  POST /api/v1/task/submit
  POST /api/v1/task/review
  POST /api/v1/task/process
  POST /api/v1/task/review/extended   (multipart: description, github_url, document)
  GET  /api/v1/reviews
  GET  /api/v1/reviews/{id}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveRun(commandContext())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8000, "port to listen on")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

// newAPIHandler builds the API router from config.
func newAPIHandler() (http.Handler, error) {
	history, err := getStore()
	if err != nil {
		return nil, err
	}
	cache := store.NewSubmissionCache(viper.GetInt("cache.capacity"))
	return api.NewServer(orchestratorFunc(), cache, history, buildVersion).Router(), nil
}

func serveRun(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, shutdownSignals()...)
	defer stop()

	handler, err := newAPIHandler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", viper.GetInt("port"))
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	ui.Success("Serving API at http://localhost%s", addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	ui.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("graceful shutdown failed", "error", err)
		return err
	}
	if dataStore != nil {
		_ = dataStore.Close()
	}
	return nil
}
