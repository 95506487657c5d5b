package ports

import "context"

// TrackingStore resolves model references to artifact locations. Implementations
// talk to a tracking server over REST or read its backend database directly.
type TrackingStore interface {
	// RunArtifactURI returns the artifact root of a run,
	// e.g. "mlflow-artifacts:/0/<run_id>/artifacts".
	RunArtifactURI(ctx context.Context, runID string) (string, error)

	// ModelVersionSource returns the artifact location a registered model version
	// was created from.
	ModelVersionSource(ctx context.Context, name, version string) (string, error)

	// Close releases connections held by the store.
	Close() error
}
