package ml

import (
	"os"
	"path/filepath"
	"testing"
)

// cesdArtifact is a tiny network that flags burnout once the CES-D score
// passes 60.
func cesdArtifact(features []string) *Artifact {
	hidden := make([][]float64, len(features))
	for i, name := range features {
		hidden[i] = []float64{0}
		if name == FieldCESD {
			hidden[i][0] = 1
		}
	}
	return &Artifact{
		FormatVersion: FormatVersion,
		Kind:          KindMLP,
		Features:      features,
		MLP: &MLP{
			Coefs:         [][][]float64{hidden, {{1}}},
			Intercepts:    [][]float64{{-60}, {-0.5}},
			Activation:    "relu",
			OutActivation: "logistic",
			Classes:       []int{0, 1},
		},
	}
}

func writeArtifact(t *testing.T, artifact *Artifact, codec string) string {
	t.Helper()
	payload, err := EncodeArtifact(artifact, codec)
	if err != nil {
		t.Fatalf("encode artifact: %v", err)
	}
	path := filepath.Join(t.TempDir(), DefaultModelFile)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func sampleInput() UserInput {
	return UserInput{
		FieldAge:      25,
		FieldYear:     1,
		FieldSex:      1,
		FieldPart:     0,
		FieldJob:      0,
		FieldStudH:    20,
		FieldHealth:   3,
		FieldPsyt:     0,
		FieldJSPE:     50,
		FieldQCAECog:  50,
		FieldQCAEAff:  50,
		FieldASMP:     50,
		FieldERecMean: 50,
		FieldCESD:     50,
		FieldSTAIT:    50,
	}
}
