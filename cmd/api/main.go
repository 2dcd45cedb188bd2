package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"assinaai/document-gateway/document-gateway-backend/internal/config"
	"assinaai/document-gateway/document-gateway-backend/internal/render"
	"assinaai/document-gateway/document-gateway-backend/internal/templates"
	"assinaai/document-gateway/document-gateway-backend/pkg/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	store, err := storage.NewS3Store(context.Background(), cfg.Storage.Region)
	if err != nil {
		logger.Fatal("failed to initialize object store", zap.Error(err))
	}

	renderer := render.NewLibreOffice(
		cfg.Renderer.BinaryPath,
		cfg.Renderer.Workspace,
		cfg.Renderer.Timeout(),
		logger,
	)

	janitor := render.NewJanitor(cfg.Renderer.Workspace, cfg.Renderer.JanitorMaxAge(), logger)
	if err := janitor.Start(cfg.Renderer.JanitorSchedule); err != nil {
		logger.Fatal("failed to start scratch janitor", zap.Error(err))
	}

	service := templates.NewService(renderer, store, templates.StoreDefaults{
		Bucket:     cfg.Storage.Bucket,
		KeyPrefix:  cfg.Storage.KeyPrefix,
		PresignTTL: cfg.Storage.PresignTTL(),
	}, logger)
	handler := templates.NewHandler(service, cfg.Upload.MaxFileBytes, logger)

	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	handler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	janitor.Stop()
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
