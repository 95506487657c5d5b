package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"model-serving-service/internal/core/domain"
	ports "model-serving-service/internal/core/ports/output"
)

const uriPrefix = "sqlite:///"

// trackingStore reads run and registry metadata from a SQLite tracking backend.
type trackingStore struct {
	db *sql.DB
}

// Open opens a sqlite:/// tracking URI read-only. "sqlite:///mlflow.db" is relative
// to the working directory, "sqlite:////abs/mlflow.db" is absolute.
func Open(trackingURI string) (ports.TrackingStore, error) {
	path, err := Path(trackingURI)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open tracking db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping tracking db: %w", err)
	}
	return &trackingStore{db: db}, nil
}

// Path extracts the database file path from a sqlite:/// tracking URI.
func Path(trackingURI string) (string, error) {
	if !strings.HasPrefix(trackingURI, uriPrefix) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedTrackingURI, trackingURI)
	}
	path := strings.TrimPrefix(trackingURI, uriPrefix)
	if path == "" {
		return "", fmt.Errorf("%w: %q has no database path", domain.ErrUnsupportedTrackingURI, trackingURI)
	}
	return path, nil
}

func (s *trackingStore) RunArtifactURI(ctx context.Context, runID string) (string, error) {
	query := `
		SELECT artifact_uri, lifecycle_stage
		FROM runs
		WHERE run_uuid = ?
	`
	var artifactURI, stage sql.NullString
	if err := s.db.QueryRowContext(ctx, query, runID).Scan(&artifactURI, &stage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrRunNotFound
		}
		return "", fmt.Errorf("get run artifact uri: %w", err)
	}
	if artifactURI.String == "" {
		return "", fmt.Errorf("run %s has no artifact_uri", runID)
	}
	if stage.String == "deleted" {
		log.WithField("run_id", runID).Warn("loading model from a deleted run")
	}
	return artifactURI.String, nil
}

func (s *trackingStore) ModelVersionSource(ctx context.Context, name, version string) (string, error) {
	v, err := strconv.Atoi(version)
	if err != nil {
		return "", fmt.Errorf("%w: version %q", domain.ErrInvalidModelURI, version)
	}

	query := `
		SELECT source
		FROM model_versions
		WHERE name = ? AND version = ?
	`
	var source sql.NullString
	if err := s.db.QueryRowContext(ctx, query, name, v).Scan(&source); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrModelVersionNotFound
		}
		return "", fmt.Errorf("get model version source: %w", err)
	}
	if source.String == "" {
		return "", fmt.Errorf("model %s version %s has no source", name, version)
	}
	return source.String, nil
}

func (s *trackingStore) Close() error {
	return s.db.Close()
}
