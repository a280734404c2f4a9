package model

import (
	"errors"
	"fmt"
)

// TreeNode is one node of a serialized decision tree. Interior nodes
// route on Feature/Threshold; leaves carry per-class sample counts.
type TreeNode struct {
	Feature   int       `json:"feature"` // -1 marks a leaf
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Counts    []float64 `json:"counts,omitempty"`
}

// Leaf reports whether the node terminates a path.
func (n TreeNode) Leaf() bool {
	return n.Feature < 0
}

// Tree is a single decision tree with nodes indexed from the root at 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Forest is the serialized tree-ensemble classifier produced by the
// offline training job. Classes fixes the label order used by every
// leaf count vector and by the returned distributions.
type Forest struct {
	Classes []string `json:"classes"`
	Trees   []Tree   `json:"trees"`
}

// Validate checks the structural invariants of a deserialized forest.
func (f *Forest) Validate() error {
	if f == nil {
		return errors.New("forest is nil")
	}
	if len(f.Classes) == 0 {
		return errors.New("forest has no classes")
	}
	if len(f.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, node := range tree.Nodes {
			if node.Leaf() {
				if len(node.Counts) != len(f.Classes) {
					return fmt.Errorf("tree %d node %d: %d counts for %d classes", ti, ni, len(node.Counts), len(f.Classes))
				}
				total := 0.0
				for _, c := range node.Counts {
					if c < 0 {
						return fmt.Errorf("tree %d node %d: negative count", ti, ni)
					}
					total += c
				}
				if total == 0 {
					return fmt.Errorf("tree %d node %d: empty leaf", ti, ni)
				}
				continue
			}
			if node.Feature >= FeatureCount {
				return fmt.Errorf("tree %d node %d: feature %d out of range", ti, ni, node.Feature)
			}
			if node.Left <= ni || node.Left >= len(tree.Nodes) || node.Right <= ni || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
		}
	}
	return nil
}

// Predict walks every tree with the normalized vector, averages the
// per-tree leaf distributions, and returns the majority label with the
// full probability distribution. Probabilities are non-negative and sum
// to 1; ties resolve to the earliest class in Classes order.
func (f *Forest) Predict(v FeatureVector) (string, map[string]float64) {
	sums := make([]float64, len(f.Classes))
	for _, tree := range f.Trees {
		leaf := tree.walk(v)
		total := 0.0
		for _, c := range leaf.Counts {
			total += c
		}
		for i, c := range leaf.Counts {
			sums[i] += c / total
		}
	}

	best := 0
	dist := make(map[string]float64, len(f.Classes))
	for i, class := range f.Classes {
		p := sums[i] / float64(len(f.Trees))
		dist[class] = p
		if sums[i] > sums[best] {
			best = i
		}
	}
	return f.Classes[best], dist
}

func (t Tree) walk(v FeatureVector) TreeNode {
	node := t.Nodes[0]
	for !node.Leaf() {
		if v[node.Feature] <= node.Threshold {
			node = t.Nodes[node.Left]
		} else {
			node = t.Nodes[node.Right]
		}
	}
	return node
}
