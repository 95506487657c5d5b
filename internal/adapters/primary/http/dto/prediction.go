package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"model-serving-service/internal/core/domain"
)

// ErrMalformedBody means the body is not JSON, or is JSON of a shape that cannot
// be read as a table.
var ErrMalformedBody = errors.New("expected an object of feature arrays or an array of records")

// PredictRequest maps a feature name to one value per record.
type PredictRequest map[string][]interface{}

// ParsePredictRequest accepts two body shapes:
//
//	{"f1": [1, 2], "f2": [3, 4]}     columns; scalar values are repeated for every record
//	[{"f1": 1, "f2": 3}, {"f1": 2}]  records; a key absent from a record becomes null
func ParsePredictRequest(body []byte) (PredictRequest, error) {
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	switch v := raw.(type) {
	case map[string]interface{}:
		return fromColumns(v)
	case []interface{}:
		return fromRecords(v)
	case nil:
		return PredictRequest{}, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrMalformedBody, raw)
	}
}

func fromColumns(obj map[string]interface{}) (PredictRequest, error) {
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := -1
	for _, name := range names {
		switch col := obj[name].(type) {
		case []interface{}:
			if rows == -1 {
				rows = len(col)
			}
		case map[string]interface{}:
			return nil, fmt.Errorf("%w: %q is an object", ErrMalformedBody, name)
		}
	}
	if rows == -1 && len(names) > 0 {
		return nil, fmt.Errorf("%w: every value is a scalar, no record count", domain.ErrEmptyTable)
	}

	req := make(PredictRequest, len(obj))
	for _, name := range names {
		if col, ok := obj[name].([]interface{}); ok {
			req[name] = col
			continue
		}
		col := make([]interface{}, rows)
		for i := range col {
			col[i] = obj[name]
		}
		req[name] = col
	}
	return req, nil
}

func fromRecords(records []interface{}) (PredictRequest, error) {
	rows := make([]map[string]interface{}, len(records))
	for i, r := range records {
		rec, ok := r.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: record %d is %T", ErrMalformedBody, i, r)
		}
		rows[i] = rec
	}

	req := make(PredictRequest)
	for _, rec := range rows {
		for name := range rec {
			if _, seen := req[name]; seen {
				continue
			}
			col := make([]interface{}, len(rows))
			for i, other := range rows {
				col[i] = other[name]
			}
			req[name] = col
		}
	}
	return req, nil
}

type PredictResponse struct {
	Predictions []float64 `json:"predictions"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	ModelURI  string `json:"model_uri"`
	RunID     string `json:"run_id"`
	Estimator string `json:"estimator"`
	Features  int    `json:"features"`
	LoadedAt  string `json:"loaded_at"`
}

func ToHealthResponse(m *domain.LoadedModel) HealthResponse {
	return HealthResponse{
		Status:    "ok",
		ModelURI:  m.Artifact.URI.String(),
		RunID:     m.Artifact.RunID,
		Estimator: m.Estimator.Type(),
		Features:  len(m.Signature.Inputs),
		LoadedAt:  m.LoadedAt.Format(time.RFC3339),
	}
}
