package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-serving-service/internal/adapters/primary/http/middleware"
	"model-serving-service/internal/adapters/secondary/estimator"
	"model-serving-service/internal/core/domain"
	"model-serving-service/internal/core/services"
	"model-serving-service/internal/testutil"
)

func setupPredictRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	est, err := estimator.Decode("", []byte(testutil.AppleForestJSON))
	require.NoError(t, err)
	uri, err := domain.NewRunModelURI(testutil.AppleRunID, testutil.AppleArtifactPath)
	require.NoError(t, err)
	model, err := domain.NewLoadedModel(
		domain.ModelArtifact{URI: uri, RunID: testutil.AppleRunID},
		domain.SignatureFromNames(testutil.AppleFeatureNames),
		est,
	)
	require.NoError(t, err)

	h := New(services.NewPredictionService(model))
	r := gin.New()
	r.Use(middleware.RequestID(), gin.Recovery())
	h.RegisterRoutes(r.Group(""))
	return r
}

func postPredict(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req, _ := http.NewRequest("POST", "/predict", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodePredictions(t *testing.T, w *httptest.ResponseRecorder) []float64 {
	t.Helper()
	var resp struct {
		Predictions []float64 `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Predictions
}

func TestPredict_ExamplePayload(t *testing.T) {
	r := setupPredictRouter(t)

	w := postPredict(t, r, testutil.ApplePayload())

	assert.Equal(t, http.StatusOK, w.Code)
	preds := decodePredictions(t, w)
	assert.Len(t, preds, 3)
	assert.Equal(t, testutil.ApplePredictions, preds)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPredict_ResponseShape(t *testing.T) {
	r := setupPredictRouter(t)

	w := postPredict(t, r, testutil.ApplePayload())
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	_, isArr := resp["predictions"].([]interface{})
	assert.True(t, isArr, "predictions should be an array, got %T", resp["predictions"])
}

func TestPredict_PermutedRecords(t *testing.T) {
	r := setupPredictRouter(t)
	want := testutil.ApplePredictions

	perms := [][]int{{0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, perm := range perms {
		permuted := make(map[string]interface{})
		for name, v := range testutil.ApplePayload() {
			vals := v.([]interface{})
			permuted[name] = []interface{}{vals[perm[0]], vals[perm[1]], vals[perm[2]]}
		}

		w := postPredict(t, r, permuted)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []float64{want[perm[0]], want[perm[1]], want[perm[2]]}, decodePredictions(t, w), "permutation %v", perm)
	}
}

// appleRecords returns the example payload as a list of per-record objects.
func appleRecords() []map[string]interface{} {
	records := make([]map[string]interface{}, len(testutil.ApplePredictions))
	for i := range records {
		records[i] = make(map[string]interface{})
	}
	for name, v := range testutil.ApplePayload() {
		for i, val := range v.([]interface{}) {
			records[i][name] = val
		}
	}
	return records
}

func TestPredict_RecordList(t *testing.T) {
	r := setupPredictRouter(t)

	w := postPredict(t, r, appleRecords())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testutil.ApplePredictions, decodePredictions(t, w))
}

func TestPredict_RecordListMissingKey(t *testing.T) {
	r := setupPredictRouter(t)

	records := appleRecords()
	delete(records[1], "rainfall")

	w := postPredict(t, r, records)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestPredict_ScalarBroadcast(t *testing.T) {
	r := setupPredictRouter(t)

	body := testutil.ApplePayload()
	body["holiday"] = 0

	w := postPredict(t, r, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testutil.ApplePredictions, decodePredictions(t, w))
}

func TestPredict_SingleRecord(t *testing.T) {
	r := setupPredictRouter(t)

	single := make(map[string]interface{})
	for name, v := range testutil.ApplePayload() {
		single[name] = v.([]interface{})[:1]
	}

	w := postPredict(t, r, single)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testutil.ApplePredictions[:1], decodePredictions(t, w))
}

func TestPredict_MalformedInput(t *testing.T) {
	r := setupPredictRouter(t)

	mismatched := testutil.ApplePayload()
	mismatched["rainfall"] = []interface{}{2.1, 0.5}

	missing := testutil.ApplePayload()
	delete(missing, "previous_days_demand")

	nonNumeric := testutil.ApplePayload()
	nonNumeric["promo"] = []interface{}{"yes", "no", "yes"}

	tests := []struct {
		name string
		body interface{}
		code int
	}{
		{"mismatched lengths", mismatched, http.StatusInternalServerError},
		{"missing feature", missing, http.StatusInternalServerError},
		{"non numeric", nonNumeric, http.StatusInternalServerError},
		{"empty object", map[string]interface{}{}, http.StatusInternalServerError},
		{"only scalars", map[string]interface{}{"rainfall": 2.1}, http.StatusInternalServerError},
		{"empty records", []interface{}{}, http.StatusInternalServerError},
		{"nested object", map[string]interface{}{"rainfall": map[string]interface{}{"0": 2.1}}, http.StatusBadRequest},
		{"records of scalars", []interface{}{1, 2, 3}, http.StatusBadRequest},
		{"not json", "rainfall=2.1", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postPredict(t, r, tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.NotEqual(t, http.StatusOK, w.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp, "error")
		})
	}
}

func TestPredict_MethodNotRouted(t *testing.T) {
	r := setupPredictRouter(t)

	req, _ := http.NewRequest("GET", "/predict", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	r := setupPredictRouter(t)

	req, _ := http.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "smoke-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "smoke-1", w.Header().Get("X-Request-ID"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "runs:/"+testutil.AppleRunID+"/rf_apples", resp["model_uri"])
	assert.Equal(t, "random_forest_regressor", resp["estimator"])
	assert.Equal(t, float64(7), resp["features"])
}
