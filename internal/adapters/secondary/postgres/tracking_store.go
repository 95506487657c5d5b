package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"model-serving-service/internal/config"
	"model-serving-service/internal/core/domain"
	ports "model-serving-service/internal/core/ports/output"
)

// rowQuerier is the subset of *pgxpool.Pool used by the tracking store.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// trackingStore reads run and registry metadata straight from a Postgres
// tracking backend database.
type trackingStore struct {
	db    rowQuerier
	close func()
}

func NewTrackingStore(pool *pgxpool.Pool) ports.TrackingStore {
	return &trackingStore{db: pool, close: pool.Close}
}

// NewPool opens and pings a connection pool for a postgresql:// tracking URI.
// A "+driver" suffix on the scheme (postgresql+psycopg2://) is dropped.
func NewPool(ctx context.Context, cfg *config.TrackingConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("parse tracking db config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create tracking db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping tracking db: %w", err)
	}
	return pool, nil
}

// DSN converts a tracking URI into a connection string pgx understands.
func DSN(trackingURI string) string {
	scheme, rest, ok := strings.Cut(trackingURI, "://")
	if !ok {
		return trackingURI
	}
	scheme, _, _ = strings.Cut(scheme, "+")
	return scheme + "://" + rest
}

func (s *trackingStore) RunArtifactURI(ctx context.Context, runID string) (string, error) {
	query := `
		SELECT artifact_uri, lifecycle_stage
		FROM runs
		WHERE run_uuid = $1
	`
	var artifactURI, stage *string
	if err := s.db.QueryRow(ctx, query, runID).Scan(&artifactURI, &stage); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrRunNotFound
		}
		return "", fmt.Errorf("get run artifact uri: %w", err)
	}
	if artifactURI == nil || *artifactURI == "" {
		return "", fmt.Errorf("run %s has no artifact_uri", runID)
	}
	if stage != nil && *stage == "deleted" {
		log.WithField("run_id", runID).Warn("loading model from a deleted run")
	}
	return *artifactURI, nil
}

func (s *trackingStore) ModelVersionSource(ctx context.Context, name, version string) (string, error) {
	v, err := strconv.Atoi(version)
	if err != nil {
		return "", fmt.Errorf("%w: version %q", domain.ErrInvalidModelURI, version)
	}

	query := `
		SELECT source
		FROM model_versions
		WHERE name = $1 AND version = $2
	`
	var source *string
	if err := s.db.QueryRow(ctx, query, name, v).Scan(&source); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrModelVersionNotFound
		}
		return "", fmt.Errorf("get model version source: %w", err)
	}
	if source == nil || *source == "" {
		return "", fmt.Errorf("model %s version %s has no source", name, version)
	}
	return *source, nil
}

func (s *trackingStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
