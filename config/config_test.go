package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"burnoutcheck/ml"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Model.Path != ml.DefaultModelFile {
		t.Fatalf("expected default model path, got %s", config.Model.Path)
	}
	if config.Http.Port != 8501 || config.Http.Timeout != 30*time.Second {
		t.Fatalf("unexpected http defaults: %+v", config.Http)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
model:
  path: models/burnout.yaml
  watch: true
http:
  port: 9000
  timeout: 5s
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Model.Path != "models/burnout.yaml" || !config.Model.Watch {
		t.Fatalf("unexpected model config: %+v", config.Model)
	}
	if config.Http.Port != 9000 || config.Http.Timeout != 5*time.Second {
		t.Fatalf("unexpected http config: %+v", config.Http)
	}
	if config.Cache.Size != 256 {
		t.Fatalf("expected default cache size, got %d", config.Cache.Size)
	}
	if config.Log.Level != "debug" {
		t.Fatalf("expected debug level, got %s", config.Log.Level)
	}
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	for name, content := range map[string]string{
		"empty":        "",
		"comment only": "# all defaults\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatal(err)
			}
			config, err := Load(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if config.Model.Path != ml.DefaultModelFile || config.Http.Port != 8501 {
				t.Fatalf("expected defaults, got %+v", config)
			}
		})
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http: [port"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}
