package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/zubinqayam/zq-portfolio/internal/logging"
	"github.com/zubinqayam/zq-portfolio/internal/server"
	"github.com/zubinqayam/zq-portfolio/internal/store"
)

const cleanupInterval = 24 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := logging.Setup(os.Stdout, logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
		gin.SetMode(cfg.Mode)

		st, err := store.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer st.Close()

		srv, err := server.New(cfg, st, server.WithLogger(logger))
		if err != nil {
			return err
		}
		defer srv.Wait()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		go runCleanup(ctx, srv)

		httpServer := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", httpServer.Addr, "variant", cfg.Contact.Variant)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		return nil
	},
}

// runCleanup applies the visitor retention at startup and then daily.
func runCleanup(ctx context.Context, srv *server.Server) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		if _, err := srv.CleanupVisitors(ctx); err != nil && ctx.Err() == nil {
			slog.Error("privacy cleanup", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
