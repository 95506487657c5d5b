package estimator

import (
	"encoding/json"
	"fmt"
	"strings"

	"model-serving-service/internal/core/domain"
	ports "model-serving-service/internal/core/ports/output"
)

// Supported estimator_type values.
const (
	TypeDecisionTree     = "decision_tree_regressor"
	TypeRandomForest     = "random_forest_regressor"
	TypeExtraTrees       = "extra_trees_regressor"
	TypeGradientBoosting = "gradient_boosting_regressor"
	TypeLinearRegression = "linear_regression"
	TypeRidge            = "ridge"
)

// header is the part of every export that is common to all estimator types.
type header struct {
	EstimatorType  string   `json:"estimator_type"`
	FeatureNamesIn []string `json:"feature_names_in"`
	NFeaturesIn    int      `json:"n_features_in"`
}

func (h header) validate() error {
	if h.NFeaturesIn < 0 || h.numFeatures() == 0 {
		return fmt.Errorf("%w: n_features_in or feature_names_in is required", domain.ErrInvalidEstimator)
	}
	if len(h.FeatureNamesIn) > 0 && h.NFeaturesIn > 0 && len(h.FeatureNamesIn) != h.NFeaturesIn {
		return fmt.Errorf("%w: %d feature names for n_features_in=%d", domain.ErrInvalidEstimator, len(h.FeatureNamesIn), h.NFeaturesIn)
	}
	return nil
}

func (h header) numFeatures() int {
	if h.NFeaturesIn > 0 {
		return h.NFeaturesIn
	}
	return len(h.FeatureNamesIn)
}

// Decode parses an estimator export. hint is the estimator_type recorded in the
// flavor section; when empty the export's own estimator_type is used.
func Decode(hint string, data []byte) (domain.Estimator, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEstimator, err)
	}

	kind := strings.ToLower(strings.TrimSpace(hint))
	if kind == "" {
		kind = strings.ToLower(strings.TrimSpace(h.EstimatorType))
	}
	if h.EstimatorType != "" && !strings.EqualFold(h.EstimatorType, kind) {
		return nil, fmt.Errorf("%w: flavor says %q, export says %q", domain.ErrInvalidEstimator, kind, h.EstimatorType)
	}
	if err := h.validate(); err != nil {
		return nil, err
	}

	switch kind {
	case TypeDecisionTree:
		return decodeDecisionTree(h, kind, data)
	case TypeRandomForest, TypeExtraTrees:
		return decodeForest(h, kind, data)
	case TypeGradientBoosting:
		return decodeBoosting(h, kind, data)
	case TypeLinearRegression, TypeRidge:
		return decodeLinear(h, kind, data)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedEstimator, kind)
	}
}

// base carries the header fields shared by every estimator implementation.
type base struct {
	kind         string
	featureNames []string
	nFeatures    int
}

func newBase(h header, kind string) base {
	return base{kind: kind, featureNames: h.FeatureNamesIn, nFeatures: h.numFeatures()}
}

func (b base) Type() string           { return b.kind }
func (b base) NumFeatures() int       { return b.nFeatures }
func (b base) FeatureNames() []string { return b.featureNames }

func (b base) checkRows(rows [][]float64) error {
	if len(rows) == 0 {
		return domain.ErrEmptyTable
	}
	for i, r := range rows {
		if len(r) != b.nFeatures {
			return fmt.Errorf("%w: row %d has %d features, estimator expects %d", domain.ErrFeatureCountMismatch, i, len(r), b.nFeatures)
		}
	}
	return nil
}

// Decoder adapts Decode to ports.EstimatorDecoder.
type Decoder struct{}

func (Decoder) Decode(kind string, data []byte) (domain.Estimator, error) {
	return Decode(kind, data)
}

var _ ports.EstimatorDecoder = Decoder{}
