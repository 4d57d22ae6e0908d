package ml

import (
	"errors"
	"fmt"
)

const FormatVersion = 1

// Artifact is the on-disk envelope of a trained model. Features, when present,
// is the training-time column order.
type Artifact struct {
	FormatVersion int             `json:"format_version" yaml:"format_version"`
	Kind          string          `json:"kind" yaml:"kind"`
	Features      []string        `json:"features,omitempty" yaml:"features,omitempty"`
	NFeatures     int             `json:"n_features,omitempty" yaml:"n_features,omitempty"`
	Scaler        *StandardScaler `json:"scaler,omitempty" yaml:"scaler,omitempty"`
	MLP           *MLP            `json:"mlp,omitempty" yaml:"mlp,omitempty"`
	Tree          []TreeNode      `json:"tree,omitempty" yaml:"tree,omitempty"`
}

func (a *Artifact) checkVersion() error {
	if a.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, a.FormatVersion)
	}
	return nil
}

func (a *Artifact) build() (*Model, error) {
	var classifier Classifier
	switch a.Kind {
	case KindMLP:
		if a.MLP == nil {
			return nil, errors.New("mlp parameters missing")
		}
		if err := a.MLP.validate(); err != nil {
			return nil, err
		}
		classifier = a.MLP
	case KindDecisionTree:
		n := a.NFeatures
		if n == 0 {
			n = len(a.Features)
		}
		tree := NewDecisionTree(a.Tree, n)
		if err := tree.validate(); err != nil {
			return nil, err
		}
		classifier = tree
	default:
		return nil, fmt.Errorf("unsupported model kind %q", a.Kind)
	}

	n := classifier.NumFeatures()
	if a.NFeatures != 0 && a.NFeatures != n {
		return nil, fmt.Errorf("n_features is %d but parameters expect %d", a.NFeatures, n)
	}
	schema, err := resolveSchema(a.Features, n)
	if err != nil {
		return nil, err
	}
	if a.Scaler != nil {
		if err := a.Scaler.validate(n); err != nil {
			return nil, err
		}
	}

	return &Model{
		Kind:       a.Kind,
		Schema:     schema,
		classifier: classifier,
		scaler:     a.Scaler,
	}, nil
}

func resolveSchema(features []string, n int) (FeatureSchema, error) {
	if len(features) == 0 {
		return DefaultSchema(n)
	}
	if len(features) != n {
		return nil, fmt.Errorf("%w: artifact lists %d features, parameters expect %d", ErrFeatureCount, len(features), n)
	}
	return NewFeatureSchema(features)
}
