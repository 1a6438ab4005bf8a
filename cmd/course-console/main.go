package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-console/api/swagger"
	"github.com/noah-isme/course-console/internal/handler"
	"github.com/noah-isme/course-console/internal/middleware"
	"github.com/noah-isme/course-console/internal/repository"
	"github.com/noah-isme/course-console/internal/service"
	"github.com/noah-isme/course-console/internal/session"
	"github.com/noah-isme/course-console/internal/validation"
	"github.com/noah-isme/course-console/internal/web"
	"github.com/noah-isme/course-console/pkg/cache"
	"github.com/noah-isme/course-console/pkg/config"
	"github.com/noah-isme/course-console/pkg/flash"
	"github.com/noah-isme/course-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-console/pkg/middleware/requestid"
)

// @title Course Console API
// @version 1.0.0
// @description JSON endpoints behind the course console views
// @BasePath /api/v1
// @schemes http

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Sugar().Errorw("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	repo := repository.NewCourseRepository(cfg.API.Root, &http.Client{Timeout: cfg.API.Timeout}, metrics, logr)
	courses := service.NewCourseService(repo, validator.New(), logr)
	rules := validation.New()

	store, redisClient, err := flashStore(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}
	messages := flash.New(store, logr)

	editSessions := session.NewManager(courses, session.Config{
		Delay:           cfg.Autosave.Delay,
		IdleTTL:         cfg.Autosave.IdleTTL,
		CleanupInterval: cfg.Autosave.CleanupInterval,
		Validator:       rules,
	}, metrics, logr)
	editSessions.Start(ctx)
	defer editSessions.Shutdown()

	templates, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	routes := handler.Routes{
		APIPrefix:      cfg.APIPrefix,
		Views:          handler.NewCourseViewHandler(courses, rules, messages, cfg.APIPrefix, cfg.Export.Enabled),
		Sessions:       handler.NewSessionHandler(editSessions, messages),
		Validation:     handler.NewValidationHandler(rules),
		Metrics:        handler.NewMetricsHandler(metrics, editSessions),
		MetricsEnabled: cfg.Metrics.Enabled,
	}
	if cfg.Export.Enabled {
		routes.Export = handler.NewExportHandler(service.NewExportService(courses, nil, nil, logr), messages)
	}
	handler.Register(r, templates, routes)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "api_root", cfg.API.Root)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		logr.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logr.Info("server stopped")
	return nil
}

func flashStore(ctx context.Context, cfg *config.Config) (sessions.Store, *redis.Client, error) {
	secret := []byte(cfg.Flash.Secret)
	if cfg.Flash.Store != config.FlashStoreRedis {
		return flash.NewCookieStore(secret, cfg.Flash.TTL), nil, nil
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis flash store: %w", err)
	}
	return flash.NewRedisStore(client, secret, cfg.Flash.TTL), client, nil
}
