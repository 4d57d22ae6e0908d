package ml

import (
	"errors"
	"fmt"
)

const defaultLeafConfidence = 0.6

type DecisionTree struct {
	nodes       []TreeNode
	numFeatures int
}

// TreeNode is one entry of a flattened tree. Children always sit after their
// parent, so traversal terminates.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx" yaml:"feature_idx"`
	Threshold  float64 `json:"threshold" yaml:"threshold"`
	LeftChild  int     `json:"left_child" yaml:"left_child"`
	RightChild int     `json:"right_child" yaml:"right_child"`
	ClassLabel int     `json:"class_label" yaml:"class_label"`
	IsLeaf     bool    `json:"is_leaf" yaml:"is_leaf"`
	Confidence float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

func NewDecisionTree(nodes []TreeNode, numFeatures int) *DecisionTree {
	return &DecisionTree{nodes: nodes, numFeatures: numFeatures}
}

func (dt *DecisionTree) NumFeatures() int {
	return dt.numFeatures
}

func (dt *DecisionTree) Predict(features []float64) (int, float64, error) {
	if len(dt.nodes) == 0 {
		return 0, 0, errors.New("model not trained")
	}
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, nodeConfidence(node), nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return 0, 0, errors.New("invalid tree state")
		}
	}
}

func (dt *DecisionTree) validate() error {
	if len(dt.nodes) == 0 {
		return errors.New("decision tree has no nodes")
	}
	if dt.numFeatures <= 0 {
		return errors.New("decision tree needs features or n_features")
	}
	for i, node := range dt.nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= dt.numFeatures {
			return fmt.Errorf("node %d splits on feature %d, model has %d", i, node.FeatureIdx, dt.numFeatures)
		}
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= i || child >= len(dt.nodes) {
				return fmt.Errorf("node %d has invalid child %d", i, child)
			}
		}
	}
	return nil
}

func nodeConfidence(node TreeNode) float64 {
	if node.Confidence > 0 {
		return node.Confidence
	}
	return defaultLeafConfidence
}
