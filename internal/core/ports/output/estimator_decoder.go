package ports

import "model-serving-service/internal/core/domain"

// EstimatorDecoder turns an estimator export into a runnable model. kind is the
// estimator_type recorded in the MLmodel flavor and may be empty.
type EstimatorDecoder interface {
	Decode(kind string, data []byte) (domain.Estimator, error)
}
