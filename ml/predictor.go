package ml

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

type Prediction struct {
	Label      string  `json:"label"`
	Class      int     `json:"class"`
	Confidence float64 `json:"confidence"`
}

// PredictionError is a recoverable failure: the caller shows no prediction
// but keeps running.
type PredictionError struct {
	Stage string
	Err   error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed during %s: %v", e.Stage, e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// Predictor turns a form submission into a burnout category using the
// store's active model.
type Predictor struct {
	store  *Store
	cache  *lru.Cache[string, Prediction]
	logger *zap.Logger
}

// NewPredictor memoizes up to cacheSize predictions; zero disables caching.
func NewPredictor(store *Store, cacheSize int, logger *zap.Logger) (*Predictor, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Predictor{store: store, logger: logger}
	if cacheSize > 0 {
		cache, err := lru.New[string, Prediction](cacheSize)
		if err != nil {
			return nil, err
		}
		p.cache = cache
	}
	return p, nil
}

func (p *Predictor) Model() *Model {
	model, _ := p.store.Current()
	return model
}

func (p *Predictor) Predict(ctx context.Context, input UserInput) (prediction Prediction, err error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	model, generation := p.store.Current()
	if model == nil {
		return Prediction{}, &PredictionError{Stage: "load", Err: errors.New("no model loaded")}
	}

	vector, err := model.Schema.Assemble(input)
	if err != nil {
		return Prediction{}, &PredictionError{Stage: "assemble", Err: err}
	}

	key := cacheKey(generation, vector)
	if p.cache != nil {
		if cached, ok := p.cache.Get(key); ok {
			return cached, nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("classifier panicked", zap.Any("panic", r))
			prediction = Prediction{}
			err = &PredictionError{Stage: "predict", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	class, confidence, err := model.Predict(vector)
	if err != nil {
		return Prediction{}, &PredictionError{Stage: "predict", Err: err}
	}
	prediction = Prediction{
		Label:      BurnoutCategory(class),
		Class:      class,
		Confidence: confidence,
	}
	if p.cache != nil {
		p.cache.Add(key, prediction)
	}
	p.logger.Debug("prediction",
		zap.Float64s("features", vector),
		zap.Int("class", class),
		zap.Float64("confidence", confidence),
	)
	return prediction, nil
}

func cacheKey(generation uint64, vector []float64) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(generation, 10))
	for _, v := range vector {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}
