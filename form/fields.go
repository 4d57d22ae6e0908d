// Package form describes the survey controls and validates submissions
// against their ranges and options.
package form

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"burnoutcheck/ml"
)

type Control string

const (
	Slider Control = "slider"
	Select Control = "select"
)

type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Field is one form control. Sliders use Min and Max, selects use Options.
type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Control Control  `json:"control"`
	Min     int      `json:"min,omitempty"`
	Max     int      `json:"max,omitempty"`
	Options []Option `json:"options,omitempty"`
	Default int      `json:"default"`
}

func (f Field) Allows(value float64) bool {
	if math.IsInf(value, 0) || value != math.Trunc(value) {
		return false
	}
	v := int(value)
	if f.Control == Slider {
		return v >= f.Min && v <= f.Max
	}
	for _, option := range f.Options {
		if option.Value == v {
			return true
		}
	}
	return false
}

// OptionLabel returns the display label of a select value.
func (f Field) OptionLabel(value int) string {
	for _, option := range f.Options {
		if option.Value == value {
			return option.Label
		}
	}
	return strconv.Itoa(value)
}

var yesNo = []Option{{Value: 0, Label: "No"}, {Value: 1, Label: "Yes"}}

var fields = []Field{
	{Name: ml.FieldAge, Label: "Age", Control: Slider, Min: 18, Max: 100, Default: 25},
	{Name: ml.FieldYear, Label: "Curriculum Year", Control: Select, Default: 1, Options: []Option{
		{1, "Biomed1"}, {2, "Biomed2"}, {3, "Biomed3"}, {4, "Mmed1"}, {5, "Mmed2"}, {6, "Mmed3"},
	}},
	{Name: ml.FieldSex, Label: "Gender", Control: Select, Default: 1, Options: []Option{
		{1, "Man"}, {2, "Woman"}, {3, "Non-binary"},
	}},
	{Name: ml.FieldGLang, Label: "Mother Tongue", Control: Select, Default: 1, Options: languageOptions()},
	{Name: ml.FieldPart, Label: "Partnership Status", Control: Select, Default: 0, Options: yesNo},
	{Name: ml.FieldJob, Label: "Having a Job", Control: Select, Default: 0, Options: yesNo},
	{Name: ml.FieldStudH, Label: "Average Hours of Study per Week", Control: Slider, Min: 0, Max: 50, Default: 20},
	{Name: ml.FieldHealth, Label: "Satisfaction with Health", Control: Select, Default: 1, Options: []Option{
		{1, "Very dissatisfied"},
		{2, "Dissatisfied"},
		{3, "Neither satisfied nor dissatisfied"},
		{4, "Satisfied"},
		{5, "Very satisfied"},
	}},
	{Name: ml.FieldPsyt, Label: "Consulted with Psychotherapy Last Year", Control: Select, Default: 0, Options: yesNo},
	{Name: ml.FieldJSPE, Label: "JSPE Total Empathy Score", Control: Slider, Min: 0, Max: 100, Default: 50},
	{Name: ml.FieldQCAECog, Label: "QCAE Cognitive Empathy Score", Control: Slider, Min: 0, Max: 100, Default: 50},
	{Name: ml.FieldQCAEAff, Label: "QCAE Affective Empathy Score", Control: Slider, Min: 0, Max: 100, Default: 50},
	{Name: ml.FieldASMP, Label: "AMSP Total Score", Control: Slider, Min: 0, Max: 100, Default: 50},
	{Name: ml.FieldERecMean, Label: "GERT Mean Value of Correct Responses", Control: Slider, Min: 0, Max: 100, Default: 50},
	{Name: ml.FieldCESD, Label: "CES-D Total Score", Control: Slider, Min: 0, Max: 100, Default: 50},
	{Name: ml.FieldSTAIT, Label: "STAI Score", Control: Slider, Min: 0, Max: 100, Default: 50},
}

// Fields returns the survey controls in display order.
func Fields() []Field {
	return append([]Field(nil), fields...)
}

func Lookup(name string) (Field, bool) {
	for _, field := range fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Defaults returns the values every control starts with.
func Defaults() ml.UserInput {
	input := make(ml.UserInput, len(fields))
	for _, field := range fields {
		input[field.Name] = float64(field.Default)
	}
	return input
}

// ValidationError lists every field that failed, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(name, problem string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[name] = problem
}

// Validate checks every value against its control. Missing fields are not
// an error here; the model decides which fields it needs.
func Validate(input ml.UserInput) error {
	verr := &ValidationError{}
	for name, value := range input {
		field, ok := Lookup(name)
		if !ok {
			verr.add(name, "unknown field")
			continue
		}
		if !field.Allows(value) {
			verr.add(name, describe(field, value))
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func describe(field Field, value float64) string {
	if field.Control == Slider {
		return fmt.Sprintf("%v is outside %d..%d", value, field.Min, field.Max)
	}
	return fmt.Sprintf("%v is not an option", value)
}

// ParseValues builds an input from a form post. Absent controls take their
// default value. The parsed input is returned even when validation fails so
// the form can be shown again as submitted.
func ParseValues(values url.Values) (ml.UserInput, error) {
	input := Defaults()
	verr := &ValidationError{}
	for _, field := range fields {
		raw := strings.TrimSpace(values.Get(field.Name))
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			verr.add(field.Name, fmt.Sprintf("%q is not a number", raw))
			continue
		}
		input[field.Name] = value
	}
	if len(verr.Fields) > 0 {
		return input, verr
	}
	return input, Validate(input)
}

// ParseAssignments applies name=value pairs on top of the defaults.
func ParseAssignments(assignments []string) (ml.UserInput, error) {
	input := Defaults()
	verr := &ValidationError{}
	for _, assignment := range assignments {
		name, raw, ok := strings.Cut(assignment, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			verr.add(assignment, "expected name=value")
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			verr.add(name, fmt.Sprintf("%q is not a number", raw))
			continue
		}
		input[name] = value
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return input, Validate(input)
}
