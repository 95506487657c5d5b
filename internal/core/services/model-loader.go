package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"model-serving-service/internal/core/domain"
	ports "model-serving-service/internal/core/ports/output"
)

// ModelLoaderService resolves a model URI against the tracking store, fetches
// the artifact files and builds the in-memory model handle.
type ModelLoaderService struct {
	tracking  ports.TrackingStore
	decoder   ports.EstimatorDecoder
	artifacts []ports.ArtifactRepository
}

func NewModelLoaderService(tracking ports.TrackingStore, decoder ports.EstimatorDecoder, artifacts ...ports.ArtifactRepository) *ModelLoaderService {
	return &ModelLoaderService{tracking: tracking, decoder: decoder, artifacts: artifacts}
}

// Load is called once at startup. The returned model is never mutated.
func (s *ModelLoaderService) Load(ctx context.Context, uri domain.ModelURI) (*domain.LoadedModel, error) {
	location, err := s.resolve(ctx, uri, 0)
	if err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{
		"model_uri": uri.String(),
		"location":  location,
	})
	logger.Debug("resolved model artifact location")

	manifestData, err := s.read(ctx, domain.JoinArtifactURI(location, domain.ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", domain.ManifestFileName, err)
	}
	manifest, err := domain.ParseManifest(manifestData)
	if err != nil {
		return nil, err
	}
	flavor, err := manifest.EstimatorFlavor()
	if err != nil {
		return nil, err
	}

	modelData, err := s.read(ctx, domain.JoinArtifactURI(location, flavor.ModelFile))
	if err != nil {
		return nil, fmt.Errorf("read model file %s: %w", flavor.ModelFile, err)
	}
	est, err := s.decoder.Decode(flavor.EstimatorType, modelData)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", flavor.ModelFile, err)
	}

	sig, err := manifest.InputSignature()
	if err != nil {
		return nil, err
	}
	if sig.IsEmpty() {
		sig = domain.SignatureFromNames(est.FeatureNames())
	}

	runID := manifest.RunID
	if runID == "" {
		runID = uri.RunID
	}
	artifact := domain.ModelArtifact{
		URI:           uri,
		Location:      location,
		RunID:         runID,
		Flavor:        domain.FlavorEstimatorJSON,
		ModelFile:     flavor.ModelFile,
		EstimatorType: est.Type(),
		CreatedAt:     manifest.CreatedAt(),
	}

	model, err := domain.NewLoadedModel(artifact, sig, est)
	if err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{
		"run_id":    runID,
		"estimator": est.Type(),
		"features":  len(sig.Inputs),
	}).Info("model loaded")
	return model, nil
}

// resolve maps a model URI to the absolute artifact URI of the model directory.
// Registry versions whose source is itself a runs:/ URI are followed once.
func (s *ModelLoaderService) resolve(ctx context.Context, uri domain.ModelURI, depth int) (string, error) {
	switch uri.Scheme {
	case domain.ModelURISchemeRuns:
		root, err := s.tracking.RunArtifactURI(ctx, uri.RunID)
		if err != nil {
			return "", fmt.Errorf("resolve run %s: %w", uri.RunID, err)
		}
		return domain.JoinArtifactURI(root, uri.ArtifactPath), nil

	case domain.ModelURISchemeModels:
		source, err := s.tracking.ModelVersionSource(ctx, uri.ModelName, uri.Version)
		if err != nil {
			return "", fmt.Errorf("resolve model %s version %s: %w", uri.ModelName, uri.Version, err)
		}
		if strings.HasPrefix(source, string(domain.ModelURISchemeRuns)+":/") {
			if depth > 0 {
				return "", fmt.Errorf("%w: nested source %q", domain.ErrInvalidModelURI, source)
			}
			inner, err := domain.ParseModelURI(source)
			if err != nil {
				return "", err
			}
			return s.resolve(ctx, inner, depth+1)
		}
		return source, nil

	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidModelURI, uri.String())
	}
}

func (s *ModelLoaderService) read(ctx context.Context, uri string) ([]byte, error) {
	for _, repo := range s.artifacts {
		if repo.Handles(uri) {
			data, err := repo.Read(ctx, uri)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", uri, err)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedArtifactScheme, uri)
}
