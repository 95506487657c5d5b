package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Predict(t *testing.T) {
	var got map[string][]float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[1275,1200,1250]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/predict", 5*time.Second)
	res, err := c.Predict(context.Background(), SamplePayload())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"predictions":[1275,1200,1250]}`, string(res.Body))
	assert.Len(t, got, 7)
	assert.Equal(t, []float64{1200, 1100, 1300}, got["previous_days_demand"])
}

func TestClient_PredictErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, time.Second).Predict(context.Background(), SamplePayload())
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, string(res.Body), "internal server error")
}

func TestClient_PredictUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Predict(context.Background(), SamplePayload())
	assert.Error(t, err)
}

func TestSamplePayload_EqualLengths(t *testing.T) {
	p := SamplePayload()
	assert.Len(t, p, 7)
	for name, vals := range p {
		assert.Len(t, vals, 3, name)
	}
}
