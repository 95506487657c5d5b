package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"model-serving-service/internal/core/domain"
	ports "model-serving-service/internal/core/ports/output"
)

// Repository reads artifacts from the local filesystem: file:// URIs and plain paths,
// as produced by tracking servers configured with a local artifact root.
type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Handles(uri string) bool {
	if strings.HasPrefix(uri, "file:") {
		return true
	}
	return !strings.Contains(uri, ":/")
}

func (r *Repository) Read(_ context.Context, uri string) ([]byte, error) {
	path, err := toPath(uri)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func toPath(uri string) (string, error) {
	if !strings.HasPrefix(uri, "file:") {
		return filepath.FromSlash(uri), nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedArtifactScheme, uri)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: remote file host %q", domain.ErrUnsupportedArtifactScheme, u.Host)
	}
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	return filepath.FromSlash(path), nil
}

// Ensure interface compliance
var _ ports.ArtifactRepository = (*Repository)(nil)
