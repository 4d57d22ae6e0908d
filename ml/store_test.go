package ml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"), nil)
	if err := store.Load(); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
	if model, _ := store.Current(); model != nil {
		t.Fatal("expected no model after failed load")
	}
}

func TestStoreFailedReloadKeepsModel(t *testing.T) {
	path := writeArtifact(t, cesdArtifact(FeatureNamesWithoutLanguage()), "json")
	store := NewStore(path, nil)
	if err := store.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, generation := store.Current()

	if err := os.WriteFile(path, []byte("garbage: ["), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := store.Load(); !errors.Is(err, ErrModelDecode) {
		t.Fatalf("expected ErrModelDecode, got %v", err)
	}
	after, afterGeneration := store.Current()
	if after != before || afterGeneration != generation {
		t.Fatal("failed reload replaced the model")
	}
}

func TestStoreWatchReloads(t *testing.T) {
	path := writeArtifact(t, cesdArtifact(FeatureNamesWithoutLanguage()), "json")
	store := NewStore(path, nil)
	if err := store.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, generation := store.Current()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	replacement, err := EncodeArtifact(cesdArtifact(FeatureNames()), "yaml")
	if err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, replacement, 0o600); err != nil {
			t.Fatal(err)
		}
		if err := os.Rename(tmp, path); err != nil {
			t.Fatal(err)
		}
		time.Sleep(100 * time.Millisecond)
		model, current := store.Current()
		if current != generation && model.NumFeatures() == 16 {
			if model.Codec != "yaml" {
				t.Fatalf("expected yaml codec after reload, got %s", model.Codec)
			}
			return
		}
	}
	t.Fatal("model was not reloaded")
}
