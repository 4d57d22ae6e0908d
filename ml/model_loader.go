package ml

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultModelFile is the artifact name looked up when no path is configured.
const DefaultModelFile = "neural_network_model.json"

// LoadModel reads the artifact at path, decoding it with the primary codec and
// falling back to the next codec on a format mismatch.
func LoadModel(path string) (*Model, error) {
	if path == "" {
		path = DefaultModelFile
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrModelNotFound, path)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	model, err := DecodeModel(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	model.Path = path
	return model, nil
}

func DecodeModel(payload []byte) (*Model, error) {
	var causes []error
	for _, codec := range Codecs {
		artifact, err := codec.decode(payload)
		if err != nil {
			causes = append(causes, fmt.Errorf("%s: %w", codec.Name, err))
			if !formatMismatch(err) {
				break
			}
			continue
		}
		model, err := artifact.build()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrModelDecode, codec.Name, err)
		}
		model.Codec = codec.Name
		return model, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrModelDecode, errors.Join(causes...))
}
