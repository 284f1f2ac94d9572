package redux

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty addr", WithAddr("")},
		{"nil executor", WithExecutor(nil)},
		{"nil codec", WithCodec(nil)},
		{"zero dial timeout", WithDialTimeout(0)},
		{"negative read timeout", WithReadTimeout(-time.Second)},
		{"zero write timeout", WithWriteTimeout(0)},
		{"zero pool size", WithPoolSize(0)},
		{"zero chunk size", WithChunkSize(0)},
		{"zero scan budget", WithScanBudget(0)},
		{"negative scan count", WithScanCount(-1)},
		{"nil logger", WithLogger(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewWithExecutorDoesNotDial(t *testing.T) {
	// An unreachable addr must not matter when an executor is supplied.
	client, err := New(
		WithAddr("255.255.255.255:1"),
		WithExecutor(newFakeStore().executor()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	client.Close()
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "redux.yml")
	content := []byte(`
addr: 127.0.0.1:7777
pool_size: 4
dial_timeout: 2s
read_timeout: 250ms
chunk_size: 128
scan_budget: 10000
scan_count: 64
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			t.Fatalf("apply option: %v", err)
		}
	}

	if cfg.addr != "127.0.0.1:7777" {
		t.Errorf("addr = %q", cfg.addr)
	}
	if cfg.poolSize != 4 {
		t.Errorf("poolSize = %d", cfg.poolSize)
	}
	if cfg.dialTimeout != 2*time.Second {
		t.Errorf("dialTimeout = %v", cfg.dialTimeout)
	}
	if cfg.readTimeout != 250*time.Millisecond {
		t.Errorf("readTimeout = %v", cfg.readTimeout)
	}
	if cfg.chunkSize != 128 {
		t.Errorf("chunkSize = %d", cfg.chunkSize)
	}
	if cfg.scanBudget != 10000 {
		t.Errorf("scanBudget = %d", cfg.scanBudget)
	}
	if cfg.scanCount != 64 {
		t.Errorf("scanCount = %d", cfg.scanCount)
	}
	// Untouched fields keep their defaults.
	if cfg.writeTimeout != defaultConfig().writeTimeout {
		t.Errorf("writeTimeout = %v, want default", cfg.writeTimeout)
	}
}

func TestLoadOptionsBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "redux.yml")
	if err := os.WriteFile(path, []byte("dial_timeout: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadOptions(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadOptionsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "redux.yml")
	if err := os.WriteFile(path, []byte(":\n\t- broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
