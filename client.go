package redux

import (
	"context"
	"sync"
	"time"

	"github.com/sharesight/redux/codec"
	"github.com/sharesight/redux/executor"
	"github.com/sharesight/redux/protocol"
)

// Client is the gateway to the store. All operations are single
// blocking round trips (scans are bounded sequences of them); the
// client holds no state between calls beyond its executor.
//
// A Client is safe for concurrent use when its executor is.
type Client struct {
	exec     executor.Executor
	ownsExec bool

	codec codec.Codec

	chunkSize  int
	scanBudget int
	scanCount  int

	logger  Logger
	metrics MetricsCollector

	mu     sync.RWMutex
	closed bool
}

// New creates a Client with the given options.
//
// Without WithExecutor the client dials the configured address itself
// (a single connection by default, a pool with WithPoolSize) and owns
// that executor: Close closes it. A supplied executor stays the
// caller's to close.
//
// Example:
//
//	client, err := redux.New(
//		redux.WithAddr("localhost:6379"),
//		redux.WithPoolSize(4),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()

	// Apply options
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	c := &Client{
		exec:       cfg.executor,
		codec:      cfg.codec,
		chunkSize:  cfg.chunkSize,
		scanBudget: cfg.scanBudget,
		scanCount:  cfg.scanCount,
		logger:     cfg.logger,
		metrics:    cfg.metrics,
	}

	if c.exec == nil {
		connOpts := []executor.ConnOption{
			executor.WithDialTimeout(cfg.dialTimeout),
			executor.WithReadTimeout(cfg.readTimeout),
			executor.WithWriteTimeout(cfg.writeTimeout),
		}
		if cfg.poolSize > 1 {
			c.exec = executor.NewPool(cfg.addr, cfg.poolSize, connOpts...)
		} else {
			conn, err := executor.Dial(cfg.addr, connOpts...)
			if err != nil {
				return nil, err
			}
			c.exec = conn
		}
		c.ownsExec = true
		c.logger.Info("connected to store", Field{Key: "addr", Value: cfg.addr})
	}

	return c, nil
}

// Close releases the client. The executor is closed only if the client
// created it.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.ownsExec {
		return c.exec.Close()
	}
	return nil
}

// do runs one command and normalizes the outcome: transport problems
// come back as the executor's error, error replies become
// *CommandError, everything else is the parsed reply.
func (c *Client) do(ctx context.Context, tokens ...string) (protocol.Value, error) {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return protocol.Value{}, ErrClosed
	}

	start := time.Now()
	reply, err := c.exec.Do(ctx, tokens...)
	if c.metrics != nil {
		c.metrics.RecordCommand(tokens[0], time.Since(start))
	}

	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordError("executor")
		}
		c.logger.Error("command failed", Field{Key: "cmd", Value: tokens[0]}, Field{Key: "err", Value: err})
		return protocol.Value{}, err
	}
	if reply.IsError() {
		if c.metrics != nil {
			c.metrics.RecordError("command")
		}
		return protocol.Value{}, &CommandError{Command: tokens[0], Message: reply.ErrorText()}
	}

	c.logger.Debug("command ok", Field{Key: "cmd", Value: tokens[0]})
	return reply, nil
}

// Del removes a key. Deleting an absent key is not an error.
func (c *Client) Del(ctx context.Context, key string) error {
	_, err := c.do(ctx, "DEL", key)
	return err
}

// Set stores a value under key. Strings travel unchanged, numbers as
// their decimal rendering, anything else through the codec.
//
// A scalar string that itself begins with '{' will be mistaken for
// encoded data by Get; store such strings through a structured wrapper
// instead.
func (c *Client) Set(ctx context.Context, key string, value interface{}) error {
	enc, err := c.encode(value)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, "SET", key, enc)
	return err
}

// Get reads the value stored under key. The second return is false
// when the key is absent; an error means the store could not be asked
// or the stored data is malformed. Absence and failure are distinct.
func (c *Client) Get(ctx context.Context, key string) (interface{}, bool, error) {
	reply, err := c.do(ctx, "GET", key)
	if err != nil {
		return nil, false, err
	}
	if reply.Nil() {
		return nil, false, nil
	}

	v, err := c.decode(reply.Text())
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordError("decode")
		}
		return nil, false, &DecodeError{Key: key, Err: err}
	}
	return v, true, nil
}
