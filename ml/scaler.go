package ml

import "fmt"

// StandardScaler centers and scales each feature the way it was done at
// training time. A zero scale leaves the centered value unscaled.
type StandardScaler struct {
	Mean  []float64 `json:"mean" yaml:"mean"`
	Scale []float64 `json:"scale" yaml:"scale"`
}

func (s *StandardScaler) Transform(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, x := range features {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (x - s.Mean[i]) / scale
	}
	return out
}

func (s *StandardScaler) validate(n int) error {
	if len(s.Mean) != n || len(s.Scale) != n {
		return fmt.Errorf("scaler has %d means and %d scales, model expects %d", len(s.Mean), len(s.Scale), n)
	}
	return nil
}
