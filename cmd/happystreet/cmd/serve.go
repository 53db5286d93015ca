package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sahil-chaple/happy-street-godhani/internal/auth"
	"github.com/sahil-chaple/happy-street-godhani/internal/config"
	"github.com/sahil-chaple/happy-street-godhani/internal/gelf"
	"github.com/sahil-chaple/happy-street-godhani/internal/handler"
	"github.com/sahil-chaple/happy-street-godhani/internal/repository"
	"github.com/sahil-chaple/happy-street-godhani/internal/router"
	"github.com/sahil-chaple/happy-street-godhani/internal/service"
	"github.com/sahil-chaple/happy-street-godhani/internal/telemetry"
)

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: $PORT or 3000)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger, closeLogs := newLogger(cfg)
	defer closeLogs()
	logger.Info().Str("version", Version).Str("store", cfg.Store.Driver).Msg("starting happy street server")

	shutdownTracing, err := telemetry.InitTracing(context.Background(), cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	store, err := openStore(ctx, cfg.Store, logger)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			logger.Error().Err(err).Msg("store close error")
		}
	}()

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	subSvc := service.NewSubmissionService(store.Submissions(), cfg.Export.Location)
	authSvc := service.NewAuthService(store.Admins(), tokens)

	ctx, cancel = context.WithTimeout(context.Background(), startupTimeout)
	bootstrap(ctx, store, authSvc, cfg.Admin, logger)
	cancel()

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Submission: handler.NewSubmissionHandler(subSvc),
		Dashboard:  handler.NewDashboardHandler(subSvc),
		Health:     handler.NewHealthHandler(store),
		Pages:      handler.NewPageHandler(cfg.StaticDir),
	}
	server := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: router.New(tokens, handlers, router.Options{
			Logger:         logger,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		}),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return gracefulShutdown(server, errCh, logger)
}

// newLogger builds the root logger, teeing it to GELF when configured.
func newLogger(cfg config.Config) (zerolog.Logger, func()) {
	if cfg.Logging.GelfAddr == "" {
		return config.NewLogger(cfg.Logging), func() {}
	}
	w, err := gelf.New(cfg.Logging.GelfAddr, cfg.Tracing.ServiceName)
	if err != nil {
		logger := config.NewLogger(cfg.Logging)
		logger.Warn().Err(err).Str("addr", cfg.Logging.GelfAddr).Msg("GELF init failed")
		return logger, func() {}
	}
	logger := config.NewLogger(cfg.Logging, io.Writer(w))
	logger.Info().Str("addr", cfg.Logging.GelfAddr).Msg("GELF logging enabled")
	return logger, func() { _ = w.Close() }
}

// bootstrap creates indexes and seeds the administrator. Failures are
// logged and the server still starts.
func bootstrap(ctx context.Context, store repository.Store, authSvc *service.AuthService, admin config.AdminBootstrapConfig, logger zerolog.Logger) {
	if err := store.Submissions().EnsureIndexes(ctx); err != nil {
		logger.Warn().Err(err).Msg("submission index creation failed")
	}
	if err := store.Admins().EnsureIndexes(ctx); err != nil {
		logger.Warn().Err(err).Msg("admin index creation failed")
	}

	created, err := authSvc.SeedAdmin(ctx, admin.Username, admin.Password)
	switch {
	case errors.Is(err, service.ErrNoSeedPassword):
		logger.Warn().Str("username", admin.Username).Msg("ADMIN_PASSWORD not set; skipping admin seeding")
	case err != nil:
		logger.Error().Err(err).Msg("admin seeding failed")
	case created:
		logger.Info().Str("username", admin.Username).Msg("seeded admin user")
	}
}

func gracefulShutdown(server *http.Server, errCh <-chan error, logger zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
