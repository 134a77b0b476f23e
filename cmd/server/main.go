package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/config"
	"github.com/Skufu/harmonycare/internal/inbox"
	"github.com/Skufu/harmonycare/internal/logging"
	"github.com/Skufu/harmonycare/internal/pages"
	"github.com/Skufu/harmonycare/internal/session"
	"github.com/Skufu/harmonycare/internal/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "harmonycare",
		Short:        "Serve the HarmonyCare assessment pages in front of the prediction backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("port", "", "listen port, overrides PORT")
	cmd.Flags().String("backend-url", "", "prediction backend root URL, overrides BACKEND_URL")
	return cmd
}

// loadConfig reads the environment and applies the command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetString("port")
	}
	if cmd.Flags().Changed("backend-url") {
		u, _ := cmd.Flags().GetString("backend-url")
		cfg.BackendURL = strings.TrimRight(u, "/")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	var (
		db    web.HealthChecker
		store inbox.Store
	)
	if cfg.EnableDB {
		pg, err := inbox.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pg.Close()
		db, store = pg, pg
	}

	client := backend.New(cfg.BackendURL,
		backend.WithHTTPClient(&http.Client{Timeout: cfg.BackendTimeout}),
		backend.WithLogger(logger),
	)
	app, err := web.New(web.Options{
		Env: pages.Env{
			Backend:  client,
			Inbox:    store,
			Logger:   logger,
			TopRiskN: cfg.TopRiskN,
		},
		Sessions:       session.NewStore(cfg.SessionTTL, session.WithMaxSessions(cfg.MaxSessions)),
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes,
		AllowOrigins:   cfg.AllowOrigins,
		Backend:        client,
		DB:             db,
	})
	if err != nil {
		return err
	}

	server := newHTTPServer(cfg, app.Handler())
	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	logger.Info("server listening",
		zap.String("addr", server.Addr),
		zap.String("backend", cfg.BackendURL),
		zap.Bool("db", cfg.EnableDB),
	)
	return waitForShutdown(ctx, server, serveErr, logger)
}

// newHTTPServer leaves room in the write timeout for the slowest backend call.
func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.BackendTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func waitForShutdown(ctx context.Context, server *http.Server, serveErr <-chan error, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
