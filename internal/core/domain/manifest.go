package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// ManifestFileName is the descriptor stored at the root of every model directory.
const ManifestFileName = "MLmodel"

// FlavorEstimatorJSON is the only flavor this service knows how to load.
const FlavorEstimatorJSON = "estimator_json"

const manifestTimeLayout = "2006-01-02 15:04:05.000000"

// Manifest is the parsed MLmodel descriptor of a model directory.
type Manifest struct {
	ArtifactPath   string                            `yaml:"artifact_path"`
	RunID          string                            `yaml:"run_id"`
	ModelUUID      string                            `yaml:"model_uuid"`
	UTCTimeCreated string                            `yaml:"utc_time_created"`
	Flavors        map[string]map[string]interface{} `yaml:"flavors"`
	Signature      *ManifestSignature                `yaml:"signature"`
}

// ManifestSignature holds the column specs as JSON strings, the way they are logged.
type ManifestSignature struct {
	Inputs  string `yaml:"inputs"`
	Outputs string `yaml:"outputs"`
}

// EstimatorFlavor is the estimator_json flavor section.
type EstimatorFlavor struct {
	ModelFile     string
	EstimatorType string
}

// ParseManifest decodes an MLmodel YAML document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if len(m.Flavors) == 0 {
		return nil, fmt.Errorf("%w: no flavors", ErrInvalidManifest)
	}
	return &m, nil
}

// EstimatorFlavor returns the estimator_json flavor section.
func (m *Manifest) EstimatorFlavor() (EstimatorFlavor, error) {
	section, ok := m.Flavors[FlavorEstimatorJSON]
	if !ok {
		names := make([]string, 0, len(m.Flavors))
		for name := range m.Flavors {
			names = append(names, name)
		}
		return EstimatorFlavor{}, fmt.Errorf("%w: want %q, have %s", ErrFlavorNotFound, FlavorEstimatorJSON, strings.Join(names, ","))
	}

	modelFile, _ := section["model_file"].(string)
	estimatorType, _ := section["estimator_type"].(string)
	if modelFile == "" {
		return EstimatorFlavor{}, fmt.Errorf("%w: %s.model_file is required", ErrInvalidManifest, FlavorEstimatorJSON)
	}
	return EstimatorFlavor{ModelFile: modelFile, EstimatorType: estimatorType}, nil
}

// CreatedAt parses utc_time_created; zero when absent or malformed.
func (m *Manifest) CreatedAt() time.Time {
	t, err := time.Parse(manifestTimeLayout, m.UTCTimeCreated)
	if err != nil {
		return time.Time{}
	}
	return t
}

// InputSignature decodes the logged input schema. A manifest without a signature, or
// with a tensor-based one, yields an empty Signature.
func (m *Manifest) InputSignature() (Signature, error) {
	if m.Signature == nil || strings.TrimSpace(m.Signature.Inputs) == "" {
		return Signature{}, nil
	}
	var cols []ColumnSpec
	if err := json.Unmarshal([]byte(m.Signature.Inputs), &cols); err != nil {
		return Signature{}, fmt.Errorf("%w: signature inputs: %v", ErrInvalidManifest, err)
	}
	for _, c := range cols {
		if c.Name == "" {
			return Signature{}, nil
		}
	}
	return Signature{Inputs: cols}, nil
}
