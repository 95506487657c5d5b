package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"model-serving-service/internal/adapters/primary/http/handlers"
	"model-serving-service/internal/adapters/primary/http/middleware"
	"model-serving-service/internal/adapters/secondary/estimator"
	"model-serving-service/internal/adapters/secondary/localfs"
	"model-serving-service/internal/adapters/secondary/mlflow"
	"model-serving-service/internal/adapters/secondary/postgres"
	"model-serving-service/internal/adapters/secondary/sqlite"
	"model-serving-service/internal/config"
	"model-serving-service/internal/core/domain"
	ports "model-serving-service/internal/core/ports/output"
	"model-serving-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	modelURI, err := resolveModelURI(&cfg.Model)
	if err != nil {
		log.Fatalf("model uri: %v", err)
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports)
	mlflowClient := mlflow.NewClient(&cfg.Tracking)
	tracking, err := openTrackingStore(context.Background(), &cfg.Tracking, mlflowClient)
	if err != nil {
		log.Fatalf("open tracking store: %v", err)
	}
	log.WithField("tracking_uri", redactURI(cfg.Tracking.URI)).Info("tracking store ready")

	// Core Services (Application Layer)
	loader := services.NewModelLoaderService(tracking, estimator.Decoder{}, mlflowClient, localfs.NewRepository())

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Tracking.Timeout)
	model, err := loader.Load(loadCtx, modelURI)
	cancelLoad()
	if closeErr := tracking.Close(); closeErr != nil {
		log.WithError(closeErr).Warn("close tracking store")
	}
	if err != nil {
		log.Fatalf("load model %s: %v", modelURI, err)
	}

	predictionSvc := services.NewPredictionService(model)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(predictionSvc)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())
	h.RegisterRoutes(router.Group(""))

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

// resolveModelURI prefers MODEL_URI and falls back to MODEL_RUN_ID + MODEL_ARTIFACT_PATH.
func resolveModelURI(cfg *config.ModelConfig) (domain.ModelURI, error) {
	if cfg.URI != "" {
		return domain.ParseModelURI(cfg.URI)
	}
	return domain.NewRunModelURI(cfg.RunID, cfg.ArtifactPath)
}

// openTrackingStore picks the backend from the tracking URI scheme.
func openTrackingStore(ctx context.Context, cfg *config.TrackingConfig, rest *mlflow.Client) (ports.TrackingStore, error) {
	scheme, _, _ := strings.Cut(cfg.URI, "://")
	scheme, _, _ = strings.Cut(strings.ToLower(scheme), "+")

	switch scheme {
	case "http", "https":
		return rest, nil
	case "postgresql", "postgres":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return postgres.NewTrackingStore(pool), nil
	case "sqlite":
		return sqlite.Open(cfg.URI)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedTrackingURI, redactURI(cfg.URI))
	}
}

// redactURI hides the password of a database tracking URI before it is logged.
func redactURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return uri
	}
	if user, _, hasPass := strings.Cut(userinfo, ":"); hasPass {
		return scheme + "://" + user + ":xxxxx@" + host
	}
	return uri
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if cfg.Logger.File != "" {
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Logger.File,
			MaxSize:    cfg.Logger.MaxSizeMB,
			MaxBackups: cfg.Logger.MaxBackups,
			MaxAge:     cfg.Logger.MaxAgeDays,
			Compress:   true,
		}))
	}
}
