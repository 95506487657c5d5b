package testutil

// Apple demand forecasting fixtures: a two-tree forest over the seven features
// used by the smoke-test client.

const (
	AppleRunID        = "790e4965409d4ae588f296033d856875"
	AppleArtifactPath = "rf_apples"
	AppleArtifactRoot = "mlflow-artifacts:/0/" + AppleRunID + "/artifacts"
)

// AppleFeatureNames is the column order the forest was fitted on.
var AppleFeatureNames = []string{
	"average_temperature",
	"rainfall",
	"weekend",
	"holiday",
	"price_per_kg",
	"promo",
	"previous_days_demand",
}

const AppleManifest = `artifact_path: rf_apples
flavors:
  estimator_json:
    estimator_type: random_forest_regressor
    model_file: model.json
  python_function:
    loader_module: mlflow.sklearn
    python_version: 3.11.7
run_id: 790e4965409d4ae588f296033d856875
signature:
  inputs: '[{"type": "double", "name": "average_temperature", "required": true}, {"type":
    "double", "name": "rainfall", "required": true}, {"type": "long", "name": "weekend",
    "required": true}, {"type": "long", "name": "holiday", "required": true}, {"type":
    "double", "name": "price_per_kg", "required": true}, {"type": "long", "name": "promo",
    "required": true}, {"type": "long", "name": "previous_days_demand", "required": true}]'
  outputs: '[{"type": "tensor", "tensor-spec": {"dtype": "float64", "shape": [-1]}}]'
utc_time_created: '2024-05-01 10:15:30.123456'
`

const AppleForestJSON = `{
  "estimator_type": "random_forest_regressor",
  "n_features_in": 7,
  "feature_names_in": ["average_temperature", "rainfall", "weekend", "holiday",
                       "price_per_kg", "promo", "previous_days_demand"],
  "estimators": [
    {"children_left": [1, 2, -1, -1, -1], "children_right": [4, 3, -1, -1, -1],
     "feature": [0, 5, -2, -2, -2], "threshold": [24.0, 0.5, -2, -2, -2],
     "value": [1150, 1075, 1000, 1150, 1300]},
    {"children_left": [1, -1, 3, -1, -1], "children_right": [2, -1, 4, -1, -1],
     "feature": [6, -2, 6, -2, -2], "threshold": [1150, -2, 1250, -2, -2],
     "value": [1200, 1100, 1300, 1250, 1350]}
  ]
}`

// ApplePayload returns the three-record request body sent by the smoke-test client.
func ApplePayload() map[string]interface{} {
	return map[string]interface{}{
		"average_temperature":  []interface{}{25.5, 30.2, 22.1},
		"rainfall":             []interface{}{2.1, 0.5, 3.2},
		"weekend":              []interface{}{1, 0, 1},
		"holiday":              []interface{}{0, 0, 0},
		"price_per_kg":         []interface{}{1.5, 2.0, 1.8},
		"promo":                []interface{}{1, 0, 1},
		"previous_days_demand": []interface{}{1200, 1100, 1300},
	}
}

// ApplePredictions are the forest's outputs for ApplePayload, in record order.
var ApplePredictions = []float64{1275, 1200, 1250}
