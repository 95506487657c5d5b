package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FeatureTable is a column-oriented view of a record batch. Every column has
// the same number of values.
type FeatureTable struct {
	columns []string
	values  map[string][]float64
	rows    int
}

// NewFeatureTable builds a table from a mapping of feature name to per-record values.
func NewFeatureTable(raw map[string][]interface{}) (*FeatureTable, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyTable
	}

	columns := make([]string, 0, len(raw))
	for name := range raw {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	t := &FeatureTable{
		columns: columns,
		values:  make(map[string][]float64, len(raw)),
		rows:    -1,
	}
	for _, name := range columns {
		col := raw[name]
		if t.rows == -1 {
			t.rows = len(col)
		} else if len(col) != t.rows {
			return nil, fmt.Errorf("%w: %q has %d values, expected %d", ErrColumnLengthMismatch, name, len(col), t.rows)
		}

		vals := make([]float64, len(col))
		for i, v := range col {
			f, err := toFloat(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %q[%d]: %v", ErrInvalidFeatureValue, name, i, err)
			}
			vals[i] = f
		}
		t.values[name] = vals
	}
	if t.rows == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}

// Columns returns the column names in sorted order.
func (t *FeatureTable) Columns() []string {
	return t.columns
}

func (t *FeatureTable) NumRows() int {
	if t == nil {
		return 0
	}
	return t.rows
}

func (t *FeatureTable) Has(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Column returns the values of a column, or nil if the column is absent.
func (t *FeatureTable) Column(name string) []float64 {
	return t.values[name]
}

func toFloat(v interface{}) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case bool:
		if x {
			f = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("could not convert string to float: %q", x)
		}
		f = parsed
	case nil:
		return 0, errors.New("null value")
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("input contains NaN or infinity")
	}
	return f, nil
}
