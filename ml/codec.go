package ml

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v2"
)

// Codec is a named artifact serialization format.
type Codec struct {
	Name      string
	Marshal   func(v interface{}) ([]byte, error)
	Unmarshal func(data []byte, v interface{}) error
}

// Codecs are tried in order when decoding an artifact. The first is the
// primary format; later entries are fallbacks.
var Codecs = []Codec{
	{Name: "json", Marshal: marshalJSON, Unmarshal: json.Unmarshal},
	{Name: "yaml", Marshal: yaml.Marshal, Unmarshal: yaml.Unmarshal},
}

func marshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func CodecByName(name string) (Codec, error) {
	for _, codec := range Codecs {
		if codec.Name == name {
			return codec, nil
		}
	}
	return Codec{}, fmt.Errorf("unknown codec %q", name)
}

// EncodeArtifact serializes an artifact with the named codec.
func EncodeArtifact(artifact *Artifact, codecName string) ([]byte, error) {
	codec, err := CodecByName(codecName)
	if err != nil {
		return nil, err
	}
	return codec.Marshal(artifact)
}

func (c Codec) decode(payload []byte) (*Artifact, error) {
	var artifact Artifact
	if err := c.Unmarshal(payload, &artifact); err != nil {
		return nil, err
	}
	if err := artifact.checkVersion(); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// formatMismatch reports whether a decode failure means the payload was
// written in another format or format version, as opposed to being broken.
func formatMismatch(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return true
	case errors.Is(err, ErrUnsupportedVersion):
		return true
	}
	return false
}
