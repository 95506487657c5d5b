package domain

import "errors"

// ============================================================================
// Artifact Store Errors
// ============================================================================

// Not found errors
var (
	ErrRunNotFound          = errors.New("run not found")
	ErrModelVersionNotFound = errors.New("registered model version not found")
	ErrArtifactNotFound     = errors.New("model artifact not found")
)

// Validation errors
var (
	ErrInvalidModelURI           = errors.New("invalid model uri")
	ErrUnsupportedArtifactScheme = errors.New("unsupported artifact uri scheme")
	ErrUnsupportedTrackingURI    = errors.New("unsupported tracking uri")
	ErrInvalidManifest           = errors.New("invalid MLmodel manifest")
	ErrFlavorNotFound            = errors.New("model flavor not found in MLmodel manifest")
)

// ============================================================================
// Estimator Errors
// ============================================================================

var (
	ErrUnsupportedEstimator = errors.New("unsupported estimator type")
	ErrInvalidEstimator     = errors.New("invalid estimator export")
	ErrFeatureCountMismatch = errors.New("feature count does not match estimator")
)

// ============================================================================
// Prediction Errors
// ============================================================================

var (
	ErrEmptyTable           = errors.New("feature table has no records")
	ErrColumnLengthMismatch = errors.New("all feature arrays must be of the same length")
	ErrMissingFeature       = errors.New("required feature is missing")
	ErrUnexpectedFeature    = errors.New("feature was not seen at fit time")
	ErrInvalidFeatureValue  = errors.New("feature value is not numeric")
)
