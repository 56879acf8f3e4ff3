package artifact

import (
	crerr "github.com/cockroachdb/errors"
)

type treeNode struct {
	// Leaf nodes carry Value; split nodes carry Feature, Threshold
	// and the child indices.
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
}

type regressionTree struct {
	Nodes []treeNode `json:"nodes"`
}

type modelArtifact struct {
	Version     string           `json:"version"`
	SchemaHash  string           `json:"schema_hash"`
	NumFeatures int              `json:"num_features"`
	BaseScore   float64          `json:"base_score"`
	Trees       []regressionTree `json:"trees"`
}

// TreeEnsemble evaluates a fitted gradient-boosted regression-tree
// model: the prediction is the base score plus the leaf value of
// every tree. The output is an unconstrained float; rounding and
// clamping happen in the serving layer.
type TreeEnsemble struct {
	numFeatures int
	baseScore   float64
	trees       []regressionTree
}

func newTreeEnsemble(spec modelArtifact) (*TreeEnsemble, error) {
	if spec.NumFeatures <= 0 {
		return nil, crerr.Newf("model declares %d features", spec.NumFeatures)
	}
	if len(spec.Trees) == 0 {
		return nil, crerr.New("model has no trees")
	}
	for t, tree := range spec.Trees {
		if len(tree.Nodes) == 0 {
			return nil, crerr.Newf("tree %d has no nodes", t)
		}
		for n, node := range tree.Nodes {
			if node.Leaf {
				continue
			}
			if node.Feature < 0 || node.Feature >= spec.NumFeatures {
				return nil, crerr.Newf("tree %d node %d splits on feature %d outside [0,%d)",
					t, n, node.Feature, spec.NumFeatures)
			}
			if node.Left >= len(tree.Nodes) || node.Right >= len(tree.Nodes) {
				return nil, crerr.Newf("tree %d node %d has child index out of range", t, n)
			}
			// Serialized trees store children strictly after their
			// parent; anything else would loop the Predict walk.
			if node.Left <= n || node.Right <= n {
				return nil, crerr.Newf("tree %d node %d has child index not after the node", t, n)
			}
		}
	}

	return &TreeEnsemble{
		numFeatures: spec.NumFeatures,
		baseScore:   spec.BaseScore,
		trees:       spec.Trees,
	}, nil
}

// NumFeatures is the encoded-vector length the model was fitted on.
func (m *TreeEnsemble) NumFeatures() int {
	return m.numFeatures
}

func (m *TreeEnsemble) Predict(features []float64) (float64, error) {
	if len(features) != m.numFeatures {
		return 0, crerr.Newf("model expects %d features, got %d", m.numFeatures, len(features))
	}

	score := m.baseScore
	for _, tree := range m.trees {
		node := tree.Nodes[0]
		for !node.Leaf {
			if features[node.Feature] < node.Threshold {
				node = tree.Nodes[node.Left]
			} else {
				node = tree.Nodes[node.Right]
			}
		}
		score += node.Value
	}

	return score, nil
}
