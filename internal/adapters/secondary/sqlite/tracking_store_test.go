package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-serving-service/internal/core/domain"
	"model-serving-service/internal/testutil"
)

// seedTrackingDB creates the subset of the tracking schema the store reads.
func seedTrackingDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mlflow.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
	CREATE TABLE runs (
		run_uuid VARCHAR(32) PRIMARY KEY,
		name VARCHAR(250),
		artifact_uri VARCHAR(200),
		lifecycle_stage VARCHAR(20)
	);
	CREATE TABLE model_versions (
		name VARCHAR(256) NOT NULL,
		version INTEGER NOT NULL,
		source VARCHAR(500),
		current_stage VARCHAR(20),
		PRIMARY KEY (name, version)
	);`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO runs VALUES (?, 'rf_apples', ?, 'active')`, testutil.AppleRunID, testutil.AppleArtifactRoot)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO model_versions VALUES ('apple-demand', 2, ?, 'Production')`, "runs:/"+testutil.AppleRunID+"/rf_apples")
	require.NoError(t, err)

	return path
}

func TestTrackingStore(t *testing.T) {
	path := seedTrackingDB(t)

	store, err := Open("sqlite:///" + path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	uri, err := store.RunArtifactURI(ctx, testutil.AppleRunID)
	require.NoError(t, err)
	assert.Equal(t, testutil.AppleArtifactRoot, uri)

	_, err = store.RunArtifactURI(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	source, err := store.ModelVersionSource(ctx, "apple-demand", "2")
	require.NoError(t, err)
	assert.Equal(t, "runs:/"+testutil.AppleRunID+"/rf_apples", source)

	_, err = store.ModelVersionSource(ctx, "apple-demand", "7")
	assert.ErrorIs(t, err, domain.ErrModelVersionNotFound)
}

func TestPath(t *testing.T) {
	p, err := Path("sqlite:///mlflow.db")
	require.NoError(t, err)
	assert.Equal(t, "mlflow.db", p)

	p, err = Path("sqlite:////var/lib/mlflow/mlflow.db")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/mlflow/mlflow.db", p)

	_, err = Path("sqlite:///")
	assert.ErrorIs(t, err, domain.ErrUnsupportedTrackingURI)

	_, err = Path("http://localhost:8080")
	assert.ErrorIs(t, err, domain.ErrUnsupportedTrackingURI)
}
