package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iliyamo/event-listing/internal/auth"
	"github.com/iliyamo/event-listing/internal/config"
	"github.com/iliyamo/event-listing/internal/handler"
	"github.com/iliyamo/event-listing/internal/middleware"
	"github.com/iliyamo/event-listing/internal/queue"
	"github.com/iliyamo/event-listing/internal/router"
	"github.com/iliyamo/event-listing/internal/service"
	"github.com/iliyamo/event-listing/internal/upload"
)

var (
	// Server flags (override env)
	serverPort  string
	autoMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server.

The server will:
- Load configuration from the environment (seeded from --env-file)
- Connect to the store selected by STORE_DRIVER
- Connect to Redis for the login rate limiter and the listing cache, if available
- Publish event activity to RabbitMQ and log it to logs/activity.log, if RABBITMQ_URL is set
- Handle graceful shutdown on SIGINT/SIGTERM`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if serverPort != "" {
			cfg.Port = serverPort
		}
		return runServer(cfg, logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverPort, "port", "", "server port (default: APP_PORT or 8080)")
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply migrations before serving")
}

func runServer(cfg config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, autoMigrate, logger)
	if err != nil {
		return err
	}
	defer st.close()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTTL)
	if err != nil {
		return err
	}
	uploader, err := upload.NewS3Uploader(ctx, upload.Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return err
	}

	var publisher queue.Publisher = queue.NopPublisher{}
	if cfg.AMQPURL != "" {
		publisher = queue.NewAMQPPublisher(cfg.AMQPURL)
		go func() {
			err := queue.StartActivityConsumer(ctx, cfg.AMQPURL, filepath.Join(".", "logs"), logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("activity consumer stopped")
			}
		}()
	}

	rdb := config.NewRedisClient(logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	users := service.NewUserService(st.users, tokens, cfg.BcryptCost, logger)
	events := service.NewEventService(st.events, uploader, publisher, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Metrics())

	router.RegisterRoutes(e)
	router.RegisterUsers(e, handler.NewAuthHandler(users, logger),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger))
	cacheCfg := config.LoadCacheConfig()
	router.RegisterEvents(e, handler.NewEventHandler(events, cfg.UploadMaxBytes, logger), router.EventMiddleware{
		Auth:       middleware.JWTAuth(tokens),
		Cache:      middleware.NewRedisCache(cacheCfg, rdb, logger),
		Invalidate: middleware.InvalidateCache(cacheCfg, rdb, logger),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
