package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ColumnSpec is one named input column of a model signature.
type ColumnSpec struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required *bool  `json:"required,omitempty"`
}

// IsRequired defaults to true, matching how column specs are logged.
func (c ColumnSpec) IsRequired() bool {
	return c.Required == nil || *c.Required
}

// Signature is the ordered list of input columns a model was fitted on.
type Signature struct {
	Inputs []ColumnSpec `json:"inputs"`
}

// SignatureFromNames builds a signature of required double columns.
func SignatureFromNames(names []string) Signature {
	cols := make([]ColumnSpec, 0, len(names))
	for _, n := range names {
		cols = append(cols, ColumnSpec{Name: n, Type: "double"})
	}
	return Signature{Inputs: cols}
}

func (s Signature) IsEmpty() bool {
	return len(s.Inputs) == 0
}

func (s Signature) FeatureNames() []string {
	names := make([]string, len(s.Inputs))
	for i, c := range s.Inputs {
		names[i] = c.Name
	}
	return names
}

// Align orders the table's columns by the signature and returns a row-major matrix.
// Optional columns that are absent are filled with zero.
func (s Signature) Align(t *FeatureTable) ([][]float64, error) {
	if t.NumRows() == 0 {
		return nil, ErrEmptyTable
	}

	known := make(map[string]struct{}, len(s.Inputs))
	var missing []string
	for _, c := range s.Inputs {
		known[c.Name] = struct{}{}
		if !t.Has(c.Name) && c.IsRequired() {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFeature, strings.Join(missing, ", "))
	}

	var unexpected []string
	for _, name := range t.Columns() {
		if _, ok := known[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedFeature, strings.Join(unexpected, ", "))
	}

	rows := make([][]float64, t.NumRows())
	for i := range rows {
		rows[i] = make([]float64, len(s.Inputs))
	}
	for j, c := range s.Inputs {
		col := t.Column(c.Name)
		for i := range rows {
			if col != nil {
				rows[i][j] = col[i]
			}
		}
	}
	return rows, nil
}
