package redux

import (
	"fmt"
	"time"

	"github.com/sharesight/redux/codec"
	"github.com/sharesight/redux/executor"
)

// Default design constants.
const (
	// DefaultChunkSize is the maximum number of field/value pairs a
	// single bulk hash write carries; larger writes are split. Bounds
	// the command's argument count to stay within practical protocol
	// limits.
	DefaultChunkSize = 256

	// DefaultScanBudget is the maximum number of pages one scan may
	// fetch before failing with ErrScanNotConverged.
	DefaultScanBudget = 1 << 20
)

// config holds the configuration for a Client
type config struct {
	// Store connection settings (used when no executor is supplied)
	addr         string
	dialTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	poolSize     int

	// Collaborators
	executor executor.Executor
	codec    codec.Codec

	// Behavioral options
	chunkSize  int
	scanBudget int
	scanCount  int

	// Observability
	logger  Logger
	metrics MetricsCollector
}

// defaultConfig returns a configuration with sensible defaults
func defaultConfig() *config {
	return &config{
		addr:         "localhost:6379",
		dialTimeout:  5 * time.Second,
		readTimeout:  30 * time.Second,
		writeTimeout: 10 * time.Second,
		poolSize:     1,
		codec:        codec.JSON(),
		chunkSize:    DefaultChunkSize,
		scanBudget:   DefaultScanBudget,
		scanCount:    0, // let the store pick its page size
		logger:       &defaultLogger{},
	}
}

// Option represents a configuration option for a Client
type Option func(*config) error

// WithAddr sets the store address the client dials when no executor is
// supplied via WithExecutor.
//
// Example:
//
//	WithAddr("redis.example.com:6379")
func WithAddr(addr string) Option {
	return func(c *config) error {
		if addr == "" {
			return fmt.Errorf("%w: empty address", ErrInvalidConfig)
		}
		c.addr = addr
		return nil
	}
}

// WithExecutor supplies the command executor directly. The client does
// not close an executor it did not create; the caller keeps ownership.
func WithExecutor(exec executor.Executor) Option {
	return func(c *config) error {
		if exec == nil {
			return fmt.Errorf("%w: nil executor", ErrInvalidConfig)
		}
		c.executor = exec
		return nil
	}
}

// WithCodec replaces the default JSON codec used for structured
// values. The codec's Encode must keep the '{'-prefix contract.
func WithCodec(cd codec.Codec) Option {
	return func(c *config) error {
		if cd == nil {
			return fmt.Errorf("%w: nil codec", ErrInvalidConfig)
		}
		c.codec = cd
		return nil
	}
}

// WithDialTimeout sets the connection timeout for the dialed executor.
func WithDialTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: dial timeout must be positive", ErrInvalidConfig)
		}
		c.dialTimeout = timeout
		return nil
	}
}

// WithReadTimeout sets the per-command reply timeout for the dialed
// executor.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: read timeout must be positive", ErrInvalidConfig)
		}
		c.readTimeout = timeout
		return nil
	}
}

// WithWriteTimeout sets the per-command write timeout for the dialed
// executor.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: write timeout must be positive", ErrInvalidConfig)
		}
		c.writeTimeout = timeout
		return nil
	}
}

// WithPoolSize sets how many connections the dialed executor keeps.
// The default of 1 gives a single serialized connection.
func WithPoolSize(size int) Option {
	return func(c *config) error {
		if size < 1 {
			return fmt.Errorf("%w: pool size must be at least 1", ErrInvalidConfig)
		}
		c.poolSize = size
		return nil
	}
}

// WithChunkSize sets the maximum field/value pairs per bulk hash
// write command.
//
// Example:
//
//	WithChunkSize(128)
func WithChunkSize(size int) Option {
	return func(c *config) error {
		if size < 1 {
			return fmt.Errorf("%w: chunk size must be at least 1", ErrInvalidConfig)
		}
		c.chunkSize = size
		return nil
	}
}

// WithScanBudget caps the number of pages one hash scan may fetch. A
// store that keeps returning non-terminal cursors past the budget
// fails the scan with ErrScanNotConverged instead of looping forever.
func WithScanBudget(pages int) Option {
	return func(c *config) error {
		if pages < 1 {
			return fmt.Errorf("%w: scan budget must be at least 1", ErrInvalidConfig)
		}
		c.scanBudget = pages
		return nil
	}
}

// WithScanCount sets the COUNT hint sent with scan commands. Zero (the
// default) omits the hint and lets the store choose its page size.
func WithScanCount(count int) Option {
	return func(c *config) error {
		if count < 0 {
			return fmt.Errorf("%w: scan count must not be negative", ErrInvalidConfig)
		}
		c.scanCount = count
		return nil
	}
}

// WithLogger sets a custom logger implementation
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidConfig)
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics sets a metrics collector. Nil (the default) disables
// metrics.
func WithMetrics(metrics MetricsCollector) Option {
	return func(c *config) error {
		c.metrics = metrics
		return nil
	}
}
