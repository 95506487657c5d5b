package estimator

import (
	"encoding/json"
	"fmt"

	"model-serving-service/internal/core/domain"
)

// Forest averages the predictions of its trees (random forest, extra trees).
type Forest struct {
	base
	trees []Tree
}

func decodeTrees(data []byte, nFeatures int) ([]Tree, error) {
	var export struct {
		Estimators []Tree `json:"estimators"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEstimator, err)
	}
	if len(export.Estimators) == 0 {
		return nil, fmt.Errorf("%w: ensemble has no estimators", domain.ErrInvalidEstimator)
	}
	for i := range export.Estimators {
		if err := export.Estimators[i].validate(nFeatures); err != nil {
			return nil, fmt.Errorf("estimator %d: %w", i, err)
		}
	}
	return export.Estimators, nil
}

func decodeForest(h header, kind string, data []byte) (*Forest, error) {
	b := newBase(h, kind)
	trees, err := decodeTrees(data, b.nFeatures)
	if err != nil {
		return nil, err
	}
	return &Forest{base: b, trees: trees}, nil
}

func (m *Forest) Predict(rows [][]float64) ([]float64, error) {
	if err := m.checkRows(rows); err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		var sum float64
		for j := range m.trees {
			sum += m.trees[j].predictRow(r)
		}
		out[i] = sum / float64(len(m.trees))
	}
	return out, nil
}

// Boosting is a gradient boosted ensemble: init + learning_rate * sum(trees).
type Boosting struct {
	base
	init         float64
	learningRate float64
	trees        []Tree
}

func decodeBoosting(h header, kind string, data []byte) (*Boosting, error) {
	var params struct {
		Init         float64  `json:"init"`
		LearningRate *float64 `json:"learning_rate"`
	}
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEstimator, err)
	}
	if params.LearningRate == nil || *params.LearningRate <= 0 {
		return nil, fmt.Errorf("%w: learning_rate must be > 0", domain.ErrInvalidEstimator)
	}

	b := newBase(h, kind)
	trees, err := decodeTrees(data, b.nFeatures)
	if err != nil {
		return nil, err
	}
	return &Boosting{base: b, init: params.Init, learningRate: *params.LearningRate, trees: trees}, nil
}

func (m *Boosting) Predict(rows [][]float64) ([]float64, error) {
	if err := m.checkRows(rows); err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		var sum float64
		for j := range m.trees {
			sum += m.trees[j].predictRow(r)
		}
		out[i] = m.init + m.learningRate*sum
	}
	return out, nil
}

var (
	_ domain.Estimator = (*Forest)(nil)
	_ domain.Estimator = (*Boosting)(nil)
)
