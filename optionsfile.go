package redux

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML shape accepted by LoadOptions. Durations
// are Go duration strings ("2s", "500ms"). Absent fields keep their
// defaults.
type fileConfig struct {
	Addr         string `yaml:"addr"`
	DialTimeout  string `yaml:"dial_timeout"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
	PoolSize     int    `yaml:"pool_size"`
	ChunkSize    int    `yaml:"chunk_size"`
	ScanBudget   int    `yaml:"scan_budget"`
	ScanCount    int    `yaml:"scan_count"`
}

// LoadOptions reads client options from a YAML file.
//
// Example file:
//
//	addr: redis.example.com:6379
//	pool_size: 4
//	dial_timeout: 2s
//	chunk_size: 128
//	scan_budget: 10000
//
// The returned options can be combined with programmatic ones; later
// options win:
//
//	opts, err := redux.LoadOptions("redux.yml")
//	client, err := redux.New(append(opts, redux.WithLogger(logger))...)
func LoadOptions(path string) ([]Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse options file %s: %w", path, err)
	}

	var opts []Option
	if fc.Addr != "" {
		opts = append(opts, WithAddr(fc.Addr))
	}
	for _, tf := range []struct {
		raw string
		opt func(time.Duration) Option
	}{
		{fc.DialTimeout, WithDialTimeout},
		{fc.ReadTimeout, WithReadTimeout},
		{fc.WriteTimeout, WithWriteTimeout},
	} {
		if tf.raw == "" {
			continue
		}
		d, err := time.ParseDuration(tf.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bad duration %q in %s", ErrInvalidConfig, tf.raw, path)
		}
		opts = append(opts, tf.opt(d))
	}
	if fc.PoolSize != 0 {
		opts = append(opts, WithPoolSize(fc.PoolSize))
	}
	if fc.ChunkSize != 0 {
		opts = append(opts, WithChunkSize(fc.ChunkSize))
	}
	if fc.ScanBudget != 0 {
		opts = append(opts, WithScanBudget(fc.ScanBudget))
	}
	if fc.ScanCount != 0 {
		opts = append(opts, WithScanCount(fc.ScanCount))
	}
	return opts, nil
}
