package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type Client struct {
	httpClient *http.Client
	predictURL string
}

// Result is the raw outcome of a predict call. Non-2xx statuses are not errors.
type Result struct {
	StatusCode int
	Body       []byte
}

func NewClient(predictURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		predictURL: predictURL,
	}
}

// Predict posts a feature payload to the inference service and returns the response as-is.
func (c *Client) Predict(ctx context.Context, payload map[string][]interface{}) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.predictURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.WithFields(log.Fields{
		"url":      c.predictURL,
		"features": len(payload),
	}).Debug("sending predict request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read predict response: %w", err)
	}

	return &Result{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// SamplePayload is the three-record apple demand batch used for smoke testing.
func SamplePayload() map[string][]interface{} {
	return map[string][]interface{}{
		"average_temperature":  {25.5, 30.2, 22.1},
		"rainfall":             {2.1, 0.5, 3.2},
		"weekend":              {1, 0, 1},
		"holiday":              {0, 0, 0},
		"price_per_kg":         {1.5, 2.0, 1.8},
		"promo":                {1, 0, 1},
		"previous_days_demand": {1200, 1100, 1300},
	}
}
