package ml

import (
	"fmt"
)

const (
	FieldAge      = "age"
	FieldYear     = "year"
	FieldSex      = "sex"
	FieldGLang    = "glang"
	FieldPart     = "part"
	FieldJob      = "job"
	FieldStudH    = "stud_h"
	FieldHealth   = "health"
	FieldPsyt     = "psyt"
	FieldJSPE     = "jspe"
	FieldQCAECog  = "qcae_cog"
	FieldQCAEAff  = "qcae_aff"
	FieldASMP     = "asmp"
	FieldERecMean = "erec_mean"
	FieldCESD     = "cesd"
	FieldSTAIT    = "stai_t"
)

// UserInput holds one form submission keyed by field name.
type UserInput map[string]float64

// FeatureNames is the full survey field order, mother tongue included.
func FeatureNames() []string {
	return []string{
		FieldAge,
		FieldYear,
		FieldSex,
		FieldGLang,
		FieldPart,
		FieldJob,
		FieldStudH,
		FieldHealth,
		FieldPsyt,
		FieldJSPE,
		FieldQCAECog,
		FieldQCAEAff,
		FieldASMP,
		FieldERecMean,
		FieldCESD,
		FieldSTAIT,
	}
}

// FeatureNamesWithoutLanguage is FeatureNames minus the mother tongue field.
func FeatureNamesWithoutLanguage() []string {
	names := make([]string, 0, 15)
	for _, name := range FeatureNames() {
		if name != FieldGLang {
			names = append(names, name)
		}
	}
	return names
}

// FeatureSchema is the ordered list of fields a model consumes.
type FeatureSchema []string

func NewFeatureSchema(names []string) (FeatureSchema, error) {
	known := make(map[string]bool)
	for _, name := range FeatureNames() {
		known[name] = true
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !known[name] {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate feature %q", name)
		}
		seen[name] = true
	}
	return FeatureSchema(append([]string(nil), names...)), nil
}

// DefaultSchema picks the survey field order for a model that does not list
// its features.
func DefaultSchema(n int) (FeatureSchema, error) {
	switch n {
	case len(FeatureNames()):
		return FeatureSchema(FeatureNames()), nil
	case len(FeatureNamesWithoutLanguage()):
		return FeatureSchema(FeatureNamesWithoutLanguage()), nil
	default:
		return nil, fmt.Errorf("%w: no default schema for %d features, list them in the artifact", ErrFeatureCount, n)
	}
}

// Assemble projects input into a vector in schema order. Fields the schema
// does not name are ignored.
func (s FeatureSchema) Assemble(input UserInput) ([]float64, error) {
	vector := make([]float64, len(s))
	for i, name := range s {
		value, ok := input[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
		vector[i] = value
	}
	return vector, nil
}
