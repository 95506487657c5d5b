package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
artifact_path: rf_apples
flavors:
  estimator_json:
    estimator_type: random_forest_regressor
    model_file: model.json
  python_function:
    env:
      conda: conda.yaml
    loader_module: mlflow.sklearn
run_id: 790e4965409d4ae588f296033d856875
signature:
  inputs: '[{"type": "double", "name": "average_temperature", "required": true}, {"type": "long", "name": "weekend"}]'
  outputs: '[{"type": "tensor", "tensor-spec": {"dtype": "float64", "shape": [-1]}}]'
utc_time_created: '2024-05-01 10:15:30.123456'
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(testManifest))
	require.NoError(t, err)

	assert.Equal(t, "rf_apples", m.ArtifactPath)
	assert.Equal(t, "790e4965409d4ae588f296033d856875", m.RunID)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 15, 30, 123456000, time.UTC), m.CreatedAt())

	flavor, err := m.EstimatorFlavor()
	require.NoError(t, err)
	assert.Equal(t, "model.json", flavor.ModelFile)
	assert.Equal(t, "random_forest_regressor", flavor.EstimatorType)

	sig, err := m.InputSignature()
	require.NoError(t, err)
	assert.Equal(t, []string{"average_temperature", "weekend"}, sig.FeatureNames())
	assert.True(t, sig.Inputs[1].IsRequired())
}

func TestParseManifest_Invalid(t *testing.T) {
	_, err := ParseManifest([]byte("flavors: [unclosed"))
	assert.ErrorIs(t, err, ErrInvalidManifest)

	_, err = ParseManifest([]byte("artifact_path: x\n"))
	assert.ErrorIs(t, err, ErrInvalidManifest)
}

func TestManifest_MissingFlavor(t *testing.T) {
	m, err := ParseManifest([]byte("flavors:\n  sklearn:\n    pickled_model: model.pkl\n"))
	require.NoError(t, err)

	_, err = m.EstimatorFlavor()
	assert.ErrorIs(t, err, ErrFlavorNotFound)
}

func TestManifest_TensorSignatureIsIgnored(t *testing.T) {
	m := &Manifest{Signature: &ManifestSignature{
		Inputs: `[{"type": "tensor", "tensor-spec": {"dtype": "float64", "shape": [-1, 7]}}]`,
	}}
	sig, err := m.InputSignature()
	require.NoError(t, err)
	assert.True(t, sig.IsEmpty())
}
