package mlflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"model-serving-service/internal/config"
	"model-serving-service/internal/core/domain"
	ports "model-serving-service/internal/core/ports/output"
)

// ArtifactScheme is the URI scheme of artifacts proxied by the tracking server.
const ArtifactScheme = "mlflow-artifacts"

const (
	errorCodeNotFound = "RESOURCE_DOES_NOT_EXIST"
	maxErrorBody      = 4096
)

// Client talks to an MLflow tracking server over its REST API. It serves both as
// the tracking store and as the repository for mlflow-artifacts: URIs.
type Client struct {
	trackingURL string
	artifactURL string
	hostScheme  string // for mlflow-artifacts://host URIs
	client      *http.Client
}

// NewClient creates a new MLflow REST client adapter
func NewClient(cfg *config.TrackingConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		trackingURL: strings.TrimRight(cfg.URI, "/"),
		artifactURL: strings.TrimRight(cfg.ArtifactServerURL, "/"),
		hostScheme:  hostScheme(cfg.ArtifactServerURL, cfg.URI),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// hostScheme picks https when the artifact server, or failing that the tracking
// server, is reached over TLS.
func hostScheme(candidates ...string) string {
	for _, raw := range candidates {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		switch strings.ToLower(u.Scheme) {
		case "https":
			return "https"
		case "http":
			return "http"
		}
	}
	return "http"
}

// MLflow API response structures
type apiError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

type runResponse struct {
	Run struct {
		Info struct {
			RunID          string `json:"run_id"`
			ArtifactURI    string `json:"artifact_uri"`
			LifecycleStage string `json:"lifecycle_stage"`
		} `json:"info"`
	} `json:"run"`
}

type modelVersionResponse struct {
	ModelVersion struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Source  string `json:"source"`
		Status  string `json:"status"`
	} `json:"model_version"`
}

func (c *Client) RunArtifactURI(ctx context.Context, runID string) (string, error) {
	q := url.Values{}
	q.Set("run_id", runID)

	var resp runResponse
	if err := c.getJSON(ctx, c.trackingURL+"/api/2.0/mlflow/runs/get?"+q.Encode(), &resp, domain.ErrRunNotFound); err != nil {
		return "", err
	}

	info := resp.Run.Info
	if info.ArtifactURI == "" {
		return "", fmt.Errorf("run %s has no artifact_uri", runID)
	}
	if info.LifecycleStage == "deleted" {
		log.WithField("run_id", runID).Warn("loading model from a deleted run")
	}
	return info.ArtifactURI, nil
}

func (c *Client) ModelVersionSource(ctx context.Context, name, version string) (string, error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("version", version)

	var resp modelVersionResponse
	if err := c.getJSON(ctx, c.trackingURL+"/api/2.0/mlflow/model-versions/get?"+q.Encode(), &resp, domain.ErrModelVersionNotFound); err != nil {
		return "", err
	}

	mv := resp.ModelVersion
	if mv.Source == "" {
		return "", fmt.Errorf("model %s version %s has no source", name, version)
	}
	if mv.Status != "" && mv.Status != "READY" {
		log.WithFields(log.Fields{
			"model":   name,
			"version": version,
			"status":  mv.Status,
		}).Warn("model version is not READY")
	}
	return mv.Source, nil
}

func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// Handles reports whether uri is proxied by the tracking server.
func (c *Client) Handles(uri string) bool {
	return strings.HasPrefix(uri, ArtifactScheme+":")
}

// Read downloads one artifact file through the tracking server's artifact proxy.
// "mlflow-artifacts://host:port/<path>" is fetched from that host; the host-less
// form is fetched from the configured artifact server.
func (c *Client) Read(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != ArtifactScheme {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedArtifactScheme, uri)
	}

	base := c.artifactURL
	if u.Host != "" {
		base = c.hostScheme + "://" + u.Host
	}
	if base == "" {
		return nil, fmt.Errorf("no artifact server configured for %s", uri)
	}

	endpoint, err := url.JoinPath(base, "api/2.0/mlflow-artifacts/artifacts", strings.TrimLeft(u.Path, "/"))
	if err != nil {
		return nil, fmt.Errorf("build artifact url: %w", err)
	}

	resp, err := c.do(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrArtifactNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, domain.ErrArtifactNotFound)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read artifact body: %w", err)
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create mlflow request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.WithField("url", endpoint).Debug("mlflow request")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mlflow request: %w", err)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}, notFound error) error {
	resp, err := c.do(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp, notFound)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode mlflow response: %w", err)
	}
	return nil
}

// statusError maps a non-200 response to notFound for RESOURCE_DOES_NOT_EXIST
// and to a descriptive error otherwise.
func (c *Client) statusError(resp *http.Response, notFound error) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.ErrorCode != "" {
		if apiErr.ErrorCode == errorCodeNotFound {
			return fmt.Errorf("%w: %s", notFound, apiErr.Message)
		}
		return fmt.Errorf("mlflow %s (status %d): %s", apiErr.ErrorCode, resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("mlflow returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

// Ensure interface compliance
var (
	_ ports.TrackingStore      = (*Client)(nil)
	_ ports.ArtifactRepository = (*Client)(nil)
)
