package ml

import (
	"errors"
	"fmt"
	"math"
)

// MLP is a feed-forward neural network classifier. Coefs[i] is the weight
// matrix of layer i laid out as [inputs][outputs].
type MLP struct {
	Coefs         [][][]float64 `json:"coefs" yaml:"coefs"`
	Intercepts    [][]float64   `json:"intercepts" yaml:"intercepts"`
	Activation    string        `json:"activation" yaml:"activation"`
	OutActivation string        `json:"out_activation" yaml:"out_activation"`
	Classes       []int         `json:"classes,omitempty" yaml:"classes,omitempty"`
}

var hiddenActivations = map[string]func(float64) float64{
	"relu": func(x float64) float64 {
		return math.Max(0, x)
	},
	"logistic": sigmoid,
	"tanh":     math.Tanh,
	"identity": func(x float64) float64 {
		return x
	},
}

func (m *MLP) NumFeatures() int {
	if len(m.Coefs) == 0 {
		return 0
	}
	return len(m.Coefs[0])
}

func (m *MLP) Predict(features []float64) (int, float64, error) {
	if len(m.Coefs) == 0 {
		return 0, 0, errors.New("model not trained")
	}
	if len(features) != m.NumFeatures() {
		return 0, 0, fmt.Errorf("%w: got %d, model expects %d", ErrFeatureCount, len(features), m.NumFeatures())
	}

	activate := hiddenActivations[m.activation()]
	values := features
	last := len(m.Coefs) - 1
	for layer, weights := range m.Coefs {
		values = affine(values, weights, m.Intercepts[layer])
		if layer == last {
			break
		}
		for i := range values {
			values[i] = activate(values[i])
		}
	}

	idx, confidence := m.decide(values)
	return m.classes()[idx], confidence, nil
}

func (m *MLP) decide(outputs []float64) (int, float64) {
	if m.outActivation() == "logistic" {
		p := sigmoid(outputs[0])
		if p > 0.5 {
			return 1, p
		}
		return 0, 1 - p
	}

	probs := softmax(outputs)
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best, probs[best]
}

func (m *MLP) activation() string {
	if m.Activation == "" {
		return "relu"
	}
	return m.Activation
}

func (m *MLP) outputs() int {
	return len(m.Intercepts[len(m.Intercepts)-1])
}

func (m *MLP) outActivation() string {
	if m.OutActivation != "" {
		return m.OutActivation
	}
	if m.outputs() == 1 {
		return "logistic"
	}
	return "softmax"
}

func (m *MLP) classes() []int {
	if len(m.Classes) > 0 {
		return m.Classes
	}
	n := m.outputs()
	if n == 1 {
		n = 2
	}
	classes := make([]int, n)
	for i := range classes {
		classes[i] = i
	}
	return classes
}

func (m *MLP) validate() error {
	if len(m.Coefs) == 0 {
		return errors.New("mlp has no layers")
	}
	if len(m.Intercepts) != len(m.Coefs) {
		return fmt.Errorf("mlp has %d weight layers but %d intercept layers", len(m.Coefs), len(m.Intercepts))
	}
	if _, ok := hiddenActivations[m.activation()]; !ok {
		return fmt.Errorf("unsupported activation %q", m.Activation)
	}

	inputs := len(m.Coefs[0])
	for layer, weights := range m.Coefs {
		if len(weights) == 0 || len(weights[0]) == 0 {
			return fmt.Errorf("mlp layer %d is empty", layer)
		}
		if len(weights) != inputs {
			return fmt.Errorf("mlp layer %d expects %d inputs, previous layer gives %d", layer, len(weights), inputs)
		}
		cols := len(weights[0])
		for _, row := range weights {
			if len(row) != cols {
				return fmt.Errorf("mlp layer %d has ragged weights", layer)
			}
		}
		if len(m.Intercepts[layer]) != cols {
			return fmt.Errorf("mlp layer %d has %d units but %d intercepts", layer, cols, len(m.Intercepts[layer]))
		}
		inputs = cols
	}

	switch m.outActivation() {
	case "logistic":
		if m.outputs() != 1 {
			return fmt.Errorf("logistic output needs 1 unit, got %d", m.outputs())
		}
	case "softmax":
		if m.outputs() < 2 {
			return errors.New("softmax output needs at least 2 units")
		}
	default:
		return fmt.Errorf("unsupported output activation %q", m.OutActivation)
	}

	want := m.outputs()
	if want == 1 {
		want = 2
	}
	if len(m.classes()) != want {
		return fmt.Errorf("mlp declares %d classes, output layer gives %d", len(m.classes()), want)
	}
	return nil
}

func affine(inputs []float64, weights [][]float64, bias []float64) []float64 {
	out := make([]float64, len(bias))
	copy(out, bias)
	for i, x := range inputs {
		for j, w := range weights[i] {
			out[j] += x * w
		}
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func softmax(values []float64) []float64 {
	maxValue := values[0]
	for _, v := range values[1:] {
		if v > maxValue {
			maxValue = v
		}
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		out[i] = math.Exp(v - maxValue)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
