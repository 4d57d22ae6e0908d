package ml

import (
	"errors"
	"fmt"
)

var (
	ErrModelNotFound      = errors.New("model file not found")
	ErrModelDecode        = errors.New("model could not be decoded")
	ErrUnsupportedVersion = errors.New("unsupported model format version")
	ErrFeatureCount       = errors.New("feature count mismatch")
	ErrMissingField       = errors.New("missing input field")
)

const (
	KindMLP          = "mlp"
	KindDecisionTree = "decision_tree"
)

// Classifier is a trained single-sample predictor. Predict returns the class
// scalar together with a confidence in [0,1].
type Classifier interface {
	Predict(features []float64) (int, float64, error)
	NumFeatures() int
}

// Model is a loaded artifact: the classifier plus the feature order it was
// trained on.
type Model struct {
	Kind   string
	Codec  string
	Path   string
	Schema FeatureSchema

	classifier Classifier
	scaler     *StandardScaler
}

func (m *Model) NumFeatures() int {
	return m.classifier.NumFeatures()
}

func (m *Model) Predict(features []float64) (int, float64, error) {
	if len(features) != m.NumFeatures() {
		return 0, 0, fmt.Errorf("%w: got %d, model expects %d", ErrFeatureCount, len(features), m.NumFeatures())
	}
	if m.scaler != nil {
		features = m.scaler.Transform(features)
	}
	return m.classifier.Predict(features)
}
