package estimator

import (
	"encoding/json"
	"fmt"

	"model-serving-service/internal/core/domain"
)

// Linear is an ordinary least squares or ridge model: intercept + coef . x.
type Linear struct {
	base
	coef      []float64
	intercept float64
}

func decodeLinear(h header, kind string, data []byte) (*Linear, error) {
	var export struct {
		Coef      []float64 `json:"coef"`
		Intercept float64   `json:"intercept"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEstimator, err)
	}

	b := newBase(h, kind)
	if len(export.Coef) != b.nFeatures {
		return nil, fmt.Errorf("%w: %d coefficients for %d features", domain.ErrInvalidEstimator, len(export.Coef), b.nFeatures)
	}
	return &Linear{base: b, coef: export.Coef, intercept: export.Intercept}, nil
}

func (m *Linear) Predict(rows [][]float64) ([]float64, error) {
	if err := m.checkRows(rows); err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		sum := m.intercept
		for j, v := range r {
			sum += m.coef[j] * v
		}
		out[i] = sum
	}
	return out, nil
}

var _ domain.Estimator = (*Linear)(nil)
