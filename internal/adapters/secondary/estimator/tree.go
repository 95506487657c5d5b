package estimator

import (
	"encoding/json"
	"fmt"

	"model-serving-service/internal/core/domain"
)

const treeLeaf = -1

// Tree is a fitted regression tree stored as parallel node arrays.
// Node i is a leaf when ChildrenLeft[i] == -1.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

func (t *Tree) validate(nFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("%w: tree has no nodes", domain.ErrInvalidEstimator)
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("%w: tree node arrays differ in length", domain.ErrInvalidEstimator)
	}
	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == treeLeaf {
			continue
		}
		// children always come after their parent, which also rules out cycles
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("%w: node %d has invalid children (%d, %d)", domain.ErrInvalidEstimator, i, left, right)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return fmt.Errorf("%w: node %d splits on feature %d", domain.ErrInvalidEstimator, i, f)
		}
	}
	return nil
}

// predictRow walks from the root to a leaf. Inputs are compared at float32
// precision, as the trees were fitted on float32 data.
func (t *Tree) predictRow(row []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != treeLeaf {
		if float64(float32(row[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// DecisionTree is a single regression tree.
type DecisionTree struct {
	base
	tree Tree
}

func decodeDecisionTree(h header, kind string, data []byte) (*DecisionTree, error) {
	var export struct {
		Tree Tree `json:"tree"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEstimator, err)
	}
	b := newBase(h, kind)
	if err := export.Tree.validate(b.nFeatures); err != nil {
		return nil, err
	}
	return &DecisionTree{base: b, tree: export.Tree}, nil
}

func (m *DecisionTree) Predict(rows [][]float64) ([]float64, error) {
	if err := m.checkRows(rows); err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = m.tree.predictRow(r)
	}
	return out, nil
}

var _ domain.Estimator = (*DecisionTree)(nil)
