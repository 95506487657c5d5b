package services

import (
	"context"

	"model-serving-service/internal/core/domain"
)

// PredictionService runs the loaded model against request batches.
type PredictionService struct {
	model *domain.LoadedModel
}

func NewPredictionService(model *domain.LoadedModel) *PredictionService {
	return &PredictionService{model: model}
}

// Predict builds a feature table from the column mapping and returns one
// prediction per record, in record order.
func (s *PredictionService) Predict(_ context.Context, features map[string][]interface{}) ([]float64, error) {
	table, err := domain.NewFeatureTable(features)
	if err != nil {
		return nil, err
	}
	return s.model.Predict(table)
}

// Model returns the handle the service was built with.
func (s *PredictionService) Model() *domain.LoadedModel {
	return s.model
}
