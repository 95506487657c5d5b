package ports

import "context"

// ArtifactRepository reads single files out of an artifact store.
type ArtifactRepository interface {
	// Handles reports whether the repository can serve the given artifact URI.
	Handles(uri string) bool

	// Read returns the content of the file at uri.
	Read(ctx context.Context, uri string) ([]byte, error)
}
