package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"maintenance-system/internal/listeners"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/routes"
	"maintenance-system/internal/services"
	"maintenance-system/migrations"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	"maintenance-system/pkg/eventbus"
	applogger "maintenance-system/pkg/logger"
	appmiddleware "maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"
	"maintenance-system/pkg/validation"
	"maintenance-system/pkg/websocket"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				_ = utils.ErrorResponse(c, err, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestLogger(logger))
	e.Use(appmiddleware.RequestTimeout(cfg.Server.RequestTimeout))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))

	v, err := validation.New()
	if err != nil {
		logger.Fatal("failed to register validation rules", zap.Error(err))
	}
	e.Validator = v

	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	if err := postgresql.Migrate(ctx, dbConn, migrations.FS, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	cacheRepo := newCacheRepository(ctx, cfg.Redis, logger)

	bus := eventbus.New(logger)
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	loggers := &routes.Loggers{
		Main:    logger,
		Auth:    logger.Named("auth"),
		Request: logger.Named("request"),
		User:    logger.Named("user"),
	}
	svc := routes.BuildServices(dbConn, cacheRepo, bus, cfg, loggers)

	listeners.NewStatsCacheListener(svc.Report, logger).Register(bus)
	listeners.NewRequestFeedListener(services.NewWebSocketNotificationService(hub, logger), logger).Register(bus)

	jwtSvc := service.NewJWTService(cfg.JWT, logger)
	routes.InitRouter(e, svc, jwtSvc, hub, cfg, loggers)

	go func() {
		logger.Info("server started", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped unexpectedly", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	bus.Wait()
}

// newCacheRepository prefers Redis and falls back to an in-process cache when
// Redis is disabled or unreachable.
func newCacheRepository(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) repositories.CacheRepositoryInterface {
	if cfg.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		err := client.Ping(ctx).Err()
		if err == nil {
			logger.Info("using Redis cache", zap.String("address", cfg.Address))
			return repositories.NewRedisCacheRepository(client)
		}
		logger.Warn("Redis unreachable, falling back to in-memory cache", zap.String("address", cfg.Address), zap.Error(err))
		_ = client.Close()
	}
	return repositories.NewMemoryCacheRepository(5*time.Minute, 10*time.Minute)
}
