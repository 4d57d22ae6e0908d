package ml

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store holds the active model. The model loaded at startup stays active
// until a reload succeeds.
type Store struct {
	path    string
	logger  *zap.Logger
	current atomic.Pointer[storedModel]
	gen     atomic.Uint64
}

type storedModel struct {
	model      *Model
	generation uint64
}

func NewStore(path string, logger *zap.Logger) *Store {
	if path == "" {
		path = DefaultModelFile
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the artifact and makes it the active model.
func (s *Store) Load() error {
	model, err := LoadModel(s.path)
	if err != nil {
		return err
	}
	s.Set(model)
	s.logger.Info("model loaded",
		zap.String("path", s.path),
		zap.String("kind", model.Kind),
		zap.String("codec", model.Codec),
		zap.Int("features", model.NumFeatures()),
	)
	return nil
}

func (s *Store) Set(model *Model) {
	s.current.Store(&storedModel{model: model, generation: s.gen.Add(1)})
}

// Current returns the active model and its generation, which changes every
// time the model is replaced.
func (s *Store) Current() (*Model, uint64) {
	stored := s.current.Load()
	if stored == nil {
		return nil, 0
	}
	return stored.model, stored.generation
}

// Watch reloads the model whenever the artifact file is written or replaced.
// It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(s.path)
	if err != nil {
		return err
	}
	// Watch the directory so atomic replaces (write temp, rename) are seen.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	s.logger.Info("watching model file", zap.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Load(); err != nil {
				s.logger.Warn("model reload failed, keeping previous model", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			s.logger.Warn("model watcher error", zap.Error(err))
		}
	}
}
