package domain

import (
	"fmt"
	"time"
)

// Estimator is a fitted regression model. Predict returns one value per row, in row order.
type Estimator interface {
	Type() string
	NumFeatures() int
	FeatureNames() []string
	Predict(rows [][]float64) ([]float64, error)
}

// LoadedModel is the read-only handle produced once at startup and shared by all
// requests for the life of the process.
type LoadedModel struct {
	Artifact  ModelArtifact
	Signature Signature
	Estimator Estimator
	LoadedAt  time.Time
}

// NewLoadedModel checks that the signature and estimator agree on the feature count.
func NewLoadedModel(artifact ModelArtifact, sig Signature, est Estimator) (*LoadedModel, error) {
	if sig.IsEmpty() {
		return nil, fmt.Errorf("%w: no input signature and no feature names in estimator", ErrInvalidEstimator)
	}
	if n := est.NumFeatures(); n > 0 && n != len(sig.Inputs) {
		return nil, fmt.Errorf("%w: signature has %d columns, estimator expects %d", ErrFeatureCountMismatch, len(sig.Inputs), n)
	}
	return &LoadedModel{
		Artifact:  artifact,
		Signature: sig,
		Estimator: est,
		LoadedAt:  time.Now().UTC(),
	}, nil
}

// Predict aligns the table to the model signature and runs a single estimator call.
func (m *LoadedModel) Predict(t *FeatureTable) ([]float64, error) {
	rows, err := m.Signature.Align(t)
	if err != nil {
		return nil, err
	}
	preds, err := m.Estimator.Predict(rows)
	if err != nil {
		return nil, err
	}
	if len(preds) != len(rows) {
		return nil, fmt.Errorf("%w: %d predictions for %d records", ErrInvalidEstimator, len(preds), len(rows))
	}
	return preds, nil
}
