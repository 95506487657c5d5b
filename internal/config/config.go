package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Tracking TrackingConfig
	Model    ModelConfig
	Logger   LoggerConfig
	Client   ClientConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type TrackingConfig struct {
	URI               string
	Timeout           time.Duration
	ArtifactServerURL string
	MaxConns          int
}

type ModelConfig struct {
	URI          string
	RunID        string
	ArtifactPath string
}

type LoggerConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ClientConfig struct {
	PredictURL string
	Timeout    time.Duration
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 5000)
	v.SetDefault("TRACKING_URI", "http://127.0.0.1:8080")
	v.SetDefault("TRACKING_TIMEOUT", "30s")
	v.SetDefault("ARTIFACT_SERVER_URL", "")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("MODEL_URI", "")
	v.SetDefault("MODEL_RUN_ID", "790e4965409d4ae588f296033d856875")
	v.SetDefault("MODEL_ARTIFACT_PATH", "rf_apples")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("LOGGER_FILE", "")
	v.SetDefault("LOGGER_MAX_SIZE_MB", 100)
	v.SetDefault("LOGGER_MAX_BACKUPS", 3)
	v.SetDefault("LOGGER_MAX_AGE_DAYS", 28)
	v.SetDefault("PREDICT_URL", "http://localhost:5000/predict")
	v.SetDefault("CLIENT_TIMEOUT", "30s")

	// Env
	v.AutomaticEnv()

	trackingTimeout, err := time.ParseDuration(v.GetString("TRACKING_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parse TRACKING_TIMEOUT: %w", err)
	}
	clientTimeout, err := time.ParseDuration(v.GetString("CLIENT_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parse CLIENT_TIMEOUT: %w", err)
	}

	port := v.GetInt("SERVER_PORT")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid SERVER_PORT %q", v.GetString("SERVER_PORT"))
	}

	// 0 keeps the pgx default
	maxConns := v.GetInt("DB_MAX_CONNS")
	if maxConns < 0 || maxConns > math.MaxInt32 {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS %q", v.GetString("DB_MAX_CONNS"))
	}

	trackingURI := strings.TrimRight(v.GetString("TRACKING_URI"), "/")
	artifactURL := strings.TrimRight(v.GetString("ARTIFACT_SERVER_URL"), "/")
	if artifactURL == "" && (strings.HasPrefix(trackingURI, "http://") || strings.HasPrefix(trackingURI, "https://")) {
		artifactURL = trackingURI
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: port,
		},
		Tracking: TrackingConfig{
			URI:               trackingURI,
			Timeout:           trackingTimeout,
			ArtifactServerURL: artifactURL,
			MaxConns:          maxConns,
		},
		Model: ModelConfig{
			URI:          v.GetString("MODEL_URI"),
			RunID:        v.GetString("MODEL_RUN_ID"),
			ArtifactPath: v.GetString("MODEL_ARTIFACT_PATH"),
		},
		Logger: LoggerConfig{
			Level:      v.GetString("LOGGER_LEVEL"),
			Format:     v.GetString("LOGGER_FORMAT"),
			File:       v.GetString("LOGGER_FILE"),
			MaxSizeMB:  v.GetInt("LOGGER_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOGGER_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOGGER_MAX_AGE_DAYS"),
		},
		Client: ClientConfig{
			PredictURL: v.GetString("PREDICT_URL"),
			Timeout:    clientTimeout,
		},
	}

	return cfg, nil
}
