package ml

import (
	"errors"
	"fmt"
	"math"
)

// DecisionTree is a binary tree stored as a flat preorder node array.
type DecisionTree struct {
	nodes []TreeNode
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
}

// NewDecisionTree validates the node array and returns a ready tree.
// Children must come after their parent, so every walk terminates.
func NewDecisionTree(nodes []TreeNode) (*DecisionTree, error) {
	if len(nodes) == 0 {
		return nil, errors.New("tree has no nodes")
	}
	for i, node := range nodes {
		if node.IsLeaf {
			if node.ClassLabel != LabelDenied && node.ClassLabel != LabelApproved {
				return nil, fmt.Errorf("leaf %d has non-binary label %d", i, node.ClassLabel)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(featureNames) {
			return nil, fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		if math.IsNaN(node.Threshold) || math.IsInf(node.Threshold, 0) {
			return nil, fmt.Errorf("node %d: threshold is not finite", i)
		}
		if node.LeftChild <= i || node.LeftChild >= len(nodes) {
			return nil, fmt.Errorf("node %d: invalid left child %d", i, node.LeftChild)
		}
		if node.RightChild <= i || node.RightChild >= len(nodes) {
			return nil, fmt.Errorf("node %d: invalid right child %d", i, node.RightChild)
		}
	}
	return &DecisionTree{nodes: append([]TreeNode(nil), nodes...)}, nil
}

func (dt *DecisionTree) Predict(features []float64) (int, error) {
	if len(dt.nodes) == 0 {
		return 0, errors.New("model not loaded")
	}
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

// Depth returns the length of the longest root-to-leaf path.
func (dt *DecisionTree) Depth() int {
	if len(dt.nodes) == 0 {
		return 0
	}
	return dt.depthFrom(0)
}

func (dt *DecisionTree) depthFrom(idx int) int {
	node := dt.nodes[idx]
	if node.IsLeaf {
		return 1
	}
	left := dt.depthFrom(node.LeftChild)
	right := dt.depthFrom(node.RightChild)
	if left > right {
		return left + 1
	}
	return right + 1
}
