package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-serving-service/internal/adapters/secondary/mlflow"
	"model-serving-service/internal/config"
	"model-serving-service/internal/core/domain"
)

func TestResolveModelURI(t *testing.T) {
	uri, err := resolveModelURI(&config.ModelConfig{RunID: "abc", ArtifactPath: "rf_apples"})
	require.NoError(t, err)
	assert.Equal(t, "runs:/abc/rf_apples", uri.String())

	uri, err = resolveModelURI(&config.ModelConfig{URI: "models:/apples/3", RunID: "abc", ArtifactPath: "rf_apples"})
	require.NoError(t, err)
	assert.Equal(t, domain.ModelURISchemeModels, uri.Scheme)

	_, err = resolveModelURI(&config.ModelConfig{})
	assert.ErrorIs(t, err, domain.ErrInvalidModelURI)
}

func TestOpenTrackingStore_HTTP(t *testing.T) {
	cfg := &config.TrackingConfig{URI: "http://127.0.0.1:8080"}
	rest := mlflow.NewClient(cfg)

	store, err := openTrackingStore(context.Background(), cfg, rest)
	require.NoError(t, err)
	assert.Same(t, rest, store)
}

func TestOpenTrackingStore_Unsupported(t *testing.T) {
	cfg := &config.TrackingConfig{URI: "mysql://mlflow:secret@db/mlflow"}

	_, err := openTrackingStore(context.Background(), cfg, mlflow.NewClient(cfg))
	assert.ErrorIs(t, err, domain.ErrUnsupportedTrackingURI)
	assert.NotContains(t, err.Error(), "secret")
}

func TestRedactURI(t *testing.T) {
	assert.Equal(t, "postgresql://mlflow:xxxxx@db:5432/mlflow", redactURI("postgresql://mlflow:secret@db:5432/mlflow"))
	assert.Equal(t, "http://127.0.0.1:8080", redactURI("http://127.0.0.1:8080"))
	assert.Equal(t, "sqlite:///mlflow.db", redactURI("sqlite:///mlflow.db"))
}
