package ml

import (
	"context"
	"errors"
	"testing"
)

type countingClassifier struct {
	calls int
	class int
	panic bool
}

func (c *countingClassifier) Predict(features []float64) (int, float64, error) {
	c.calls++
	if c.panic {
		panic("boom")
	}
	return c.class, 0.7, nil
}

func (c *countingClassifier) NumFeatures() int {
	return 15
}

func newTestPredictor(t *testing.T, classifier Classifier, cacheSize int) *Predictor {
	t.Helper()
	store := NewStore("", nil)
	store.Set(&Model{
		Kind:       KindMLP,
		Schema:     FeatureSchema(FeatureNamesWithoutLanguage()),
		classifier: classifier,
	})
	predictor, err := NewPredictor(store, cacheSize, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return predictor
}

func TestPredictorLabels(t *testing.T) {
	path := writeArtifact(t, cesdArtifact(FeatureNamesWithoutLanguage()), "json")
	store := NewStore(path, nil)
	if err := store.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	predictor, err := NewPredictor(store, 16, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input := sampleInput()
	prediction, err := predictor.Predict(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prediction.Label != LabelLowBurnout || prediction.Class != 0 {
		t.Fatalf("unexpected prediction: %+v", prediction)
	}

	input[FieldCESD] = 90
	prediction, err = predictor.Predict(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prediction.Label != LabelHighBurnout || prediction.Class != 1 {
		t.Fatalf("unexpected prediction: %+v", prediction)
	}
}

func TestPredictorCachesByVector(t *testing.T) {
	classifier := &countingClassifier{class: 1}
	predictor := newTestPredictor(t, classifier, 8)

	for i := 0; i < 3; i++ {
		if _, err := predictor.Predict(context.Background(), sampleInput()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if classifier.calls != 1 {
		t.Fatalf("expected 1 classifier call, got %d", classifier.calls)
	}

	// A replaced model must not be served from the old model's entries.
	predictor.store.Set(predictor.Model())
	if _, err := predictor.Predict(context.Background(), sampleInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if classifier.calls != 2 {
		t.Fatalf("expected 2 classifier calls after reload, got %d", classifier.calls)
	}
}

func TestPredictorWithoutCache(t *testing.T) {
	classifier := &countingClassifier{}
	predictor := newTestPredictor(t, classifier, 0)
	for i := 0; i < 2; i++ {
		if _, err := predictor.Predict(context.Background(), sampleInput()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if classifier.calls != 2 {
		t.Fatalf("expected 2 classifier calls, got %d", classifier.calls)
	}
}

func TestPredictorErrorsAreRecoverable(t *testing.T) {
	predictor := newTestPredictor(t, &countingClassifier{panic: true}, 0)

	_, err := predictor.Predict(context.Background(), sampleInput())
	var predErr *PredictionError
	if !errors.As(err, &predErr) || predErr.Stage != "predict" {
		t.Fatalf("expected predict stage error, got %v", err)
	}

	input := sampleInput()
	delete(input, FieldAge)
	_, err = predictor.Predict(context.Background(), input)
	if !errors.As(err, &predErr) || predErr.Stage != "assemble" {
		t.Fatalf("expected assemble stage error, got %v", err)
	}
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestPredictorNoModel(t *testing.T) {
	predictor, err := NewPredictor(NewStore("", nil), 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = predictor.Predict(context.Background(), sampleInput())
	var predErr *PredictionError
	if !errors.As(err, &predErr) || predErr.Stage != "load" {
		t.Fatalf("expected load stage error, got %v", err)
	}
}

func TestPredictorCanceledContext(t *testing.T) {
	predictor := newTestPredictor(t, &countingClassifier{}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := predictor.Predict(ctx, sampleInput()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
