package artifact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validModelSpec() modelArtifact {
	return modelArtifact{
		Version:     "2025.08",
		SchemaHash:  "abc123",
		NumFeatures: 3,
		BaseScore:   0.5,
		Trees: []regressionTree{
			{Nodes: []treeNode{
				{Feature: 0, Threshold: 1.0, Left: 1, Right: 2},
				{Leaf: true, Value: 0.25},
				{Leaf: true, Value: 1.0},
			}},
			{Nodes: []treeNode{
				{Feature: 2, Threshold: -0.5, Left: 1, Right: 2},
				{Leaf: true, Value: -0.1},
				{Leaf: true, Value: 0.4},
			}},
		},
	}
}

func TestTreeEnsemble_Predict(t *testing.T) {
	model, err := newTreeEnsemble(validModelSpec())
	require.NoError(t, err)
	require.Equal(t, 3, model.NumFeatures())

	// First tree: 0.3 < 1.0 goes left (0.25). Second: 0.0 >= -0.5 goes
	// right (0.4). Score = 0.5 + 0.25 + 0.4.
	got, err := model.Predict([]float64{0.3, 9, 0})
	require.NoError(t, err)
	require.InDelta(t, 1.15, got, 1e-9)

	// First tree right branch: 2.0 >= 1.0 gives 1.0.
	got, err = model.Predict([]float64{2.0, 9, -1})
	require.NoError(t, err)
	require.InDelta(t, 0.5+1.0-0.1, got, 1e-9)
}

func TestTreeEnsemble_Predict_WrongWidth(t *testing.T) {
	model, err := newTreeEnsemble(validModelSpec())
	require.NoError(t, err)

	_, err = model.Predict([]float64{1, 2})
	require.Error(t, err)
}

func TestNewTreeEnsemble_Validation(t *testing.T) {
	t.Run("no trees", func(t *testing.T) {
		spec := validModelSpec()
		spec.Trees = nil
		_, err := newTreeEnsemble(spec)
		require.Error(t, err)
	})

	t.Run("feature index out of range", func(t *testing.T) {
		spec := validModelSpec()
		spec.Trees[0].Nodes[0].Feature = 3
		_, err := newTreeEnsemble(spec)
		require.Error(t, err)
	})

	t.Run("child index out of range", func(t *testing.T) {
		spec := validModelSpec()
		spec.Trees[0].Nodes[0].Right = 7
		_, err := newTreeEnsemble(spec)
		require.Error(t, err)
	})

	t.Run("split node pointing at itself", func(t *testing.T) {
		spec := validModelSpec()
		spec.Trees[0].Nodes[0].Left = 0
		spec.Trees[0].Nodes[0].Right = 0
		_, err := newTreeEnsemble(spec)
		require.Error(t, err)
	})

	t.Run("child before its parent", func(t *testing.T) {
		spec := validModelSpec()
		spec.Trees[1].Nodes = []treeNode{
			{Feature: 1, Threshold: 0, Left: 1, Right: 2},
			{Feature: 1, Threshold: 0, Left: 0, Right: 2},
			{Leaf: true, Value: 0.4},
		}
		_, err := newTreeEnsemble(spec)
		require.Error(t, err)
	})

	t.Run("non-positive feature count", func(t *testing.T) {
		spec := validModelSpec()
		spec.NumFeatures = 0
		_, err := newTreeEnsemble(spec)
		require.Error(t, err)
	})
}
