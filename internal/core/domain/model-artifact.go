package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ModelURIScheme identifies how a model artifact is addressed in the tracking store.
type ModelURIScheme string

const (
	ModelURISchemeRuns   ModelURIScheme = "runs"
	ModelURISchemeModels ModelURIScheme = "models"
)

// ModelURI is a parsed "runs:/<run_id>/<artifact_path>" or
// "models:/<name>/<version>" reference.
type ModelURI struct {
	Scheme ModelURIScheme

	// runs:/
	RunID        string
	ArtifactPath string

	// models:/
	ModelName string
	Version   string
}

// NewRunModelURI builds a runs:/ reference from its parts.
func NewRunModelURI(runID, artifactPath string) (ModelURI, error) {
	runID = strings.TrimSpace(runID)
	artifactPath = strings.Trim(strings.TrimSpace(artifactPath), "/")
	if runID == "" || artifactPath == "" {
		return ModelURI{}, fmt.Errorf("%w: run id and artifact path are required", ErrInvalidModelURI)
	}
	return ModelURI{Scheme: ModelURISchemeRuns, RunID: runID, ArtifactPath: artifactPath}, nil
}

// ParseModelURI parses a runs:/ or models:/ reference. Registry versions must be
// numeric; stage aliases are not resolved.
func ParseModelURI(raw string) (ModelURI, error) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(raw), ":/")
	if !ok {
		return ModelURI{}, fmt.Errorf("%w: %q", ErrInvalidModelURI, raw)
	}
	rest = strings.TrimLeft(rest, "/")

	switch ModelURIScheme(scheme) {
	case ModelURISchemeRuns:
		runID, path, _ := strings.Cut(rest, "/")
		uri, err := NewRunModelURI(runID, path)
		if err != nil {
			return ModelURI{}, fmt.Errorf("%w: %q", ErrInvalidModelURI, raw)
		}
		return uri, nil
	case ModelURISchemeModels:
		name, version, _ := strings.Cut(rest, "/")
		version = strings.Trim(version, "/")
		if n, err := strconv.Atoi(version); name == "" || err != nil || n <= 0 {
			return ModelURI{}, fmt.Errorf("%w: %q", ErrInvalidModelURI, raw)
		}
		return ModelURI{Scheme: ModelURISchemeModels, ModelName: name, Version: version}, nil
	default:
		return ModelURI{}, fmt.Errorf("%w: unknown scheme %q", ErrInvalidModelURI, scheme)
	}
}

func (u ModelURI) String() string {
	if u.Scheme == ModelURISchemeModels {
		return fmt.Sprintf("models:/%s/%s", u.ModelName, u.Version)
	}
	return fmt.Sprintf("runs:/%s/%s", u.RunID, u.ArtifactPath)
}

// ModelArtifact describes a resolved artifact directory in the artifact store.
type ModelArtifact struct {
	URI           ModelURI  `json:"uri"`
	Location      string    `json:"location"` // absolute artifact URI of the model directory
	RunID         string    `json:"run_id"`
	Flavor        string    `json:"flavor"`
	ModelFile     string    `json:"model_file"`
	EstimatorType string    `json:"estimator_type"`
	CreatedAt     time.Time `json:"created_at"`
}

// JoinArtifactURI appends a relative path to an artifact URI.
func JoinArtifactURI(base string, elems ...string) string {
	out := strings.TrimRight(base, "/")
	for _, e := range elems {
		e = strings.Trim(e, "/")
		if e == "" {
			continue
		}
		out += "/" + e
	}
	return out
}
