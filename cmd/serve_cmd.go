package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"breed-gallery/pkg/config"
	"breed-gallery/pkg/handlers"
	"breed-gallery/pkg/services"
)

const shutdownTimeout = 10 * time.Second

// newServeCmd creates a new command for serving the web application
func newServeCmd() *cobra.Command {
	var viewsDir, publicDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `Start the web server to serve the breed tree, photo grid and viewer via HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			svc := services.InitService(cfg, logger)
			defer svc.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serveWebsite(ctx, cfg, svc, viewsDir, publicDir)
		},
	}

	cmd.Flags().StringVar(&viewsDir, "views", "./views", "Directory containing the page templates")
	cmd.Flags().StringVar(&publicDir, "public", "./public", "Directory containing static assets")
	return cmd
}

// serveWebsite runs the web server until ctx is cancelled
func serveWebsite(ctx context.Context, cfg *config.Config, svc *services.Service, viewsDir, publicDir string) error {
	server := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           handlers.NewRouter(svc, logger, viewsDir, publicDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		cfg.PrintServerStartMessage()
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
