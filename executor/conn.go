package executor

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sharesight/redux/protocol"
)

// ConnOption configures a Conn.
type ConnOption func(*Conn)

// WithDialTimeout sets the timeout for establishing the TCP connection.
func WithDialTimeout(d time.Duration) ConnOption {
	return func(c *Conn) { c.dialTimeout = d }
}

// WithReadTimeout sets the per-command reply deadline.
func WithReadTimeout(d time.Duration) ConnOption {
	return func(c *Conn) { c.readTimeout = d }
}

// WithWriteTimeout sets the per-command write deadline.
func WithWriteTimeout(d time.Duration) ConnOption {
	return func(c *Conn) { c.writeTimeout = d }
}

// Conn is an Executor backed by a single TCP connection. Round trips
// are serialized under a mutex; after a transport error the connection
// is dropped and redialed on the next command.
type Conn struct {
	addr string

	dialTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	reader *protocol.Reader
	writer *protocol.Writer
	closed bool
}

// Dial connects to the store at addr and returns a ready Conn.
func Dial(addr string, opts ...ConnOption) (*Conn, error) {
	c := &Conn{
		addr:         addr,
		dialTimeout:  5 * time.Second,
		readTimeout:  30 * time.Second,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connectLocked(); err != nil {
		return nil, err
	}
	return c, nil
}

// connectLocked dials the store. Caller holds c.mu.
func (c *Conn) connectLocked() error {
	dialer := &net.Dialer{Timeout: c.dialTimeout}
	conn, err := dialer.Dial("tcp", c.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.addr, err)
	}

	c.conn = conn
	if c.reader == nil {
		c.reader = protocol.NewReader(conn)
		c.writer = protocol.NewWriter(conn)
	} else {
		c.reader.Reset(conn)
		c.writer.Reset(conn)
	}
	return nil
}

// Do implements Executor. One command, one reply, under deadline.
func (c *Conn) Do(ctx context.Context, tokens ...string) (protocol.Value, error) {
	if len(tokens) == 0 {
		return protocol.Value{}, ErrEmptyCommand
	}
	if err := ctx.Err(); err != nil {
		return protocol.Value{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return protocol.Value{}, ErrClosed
	}
	if c.conn == nil {
		if err := c.connectLocked(); err != nil {
			return protocol.Value{}, err
		}
	}

	if err := c.conn.SetWriteDeadline(c.deadline(ctx, c.writeTimeout)); err != nil {
		return protocol.Value{}, c.dropLocked(err)
	}
	if err := c.writer.WriteCommand(tokens...); err != nil {
		return protocol.Value{}, c.dropLocked(err)
	}
	if err := c.writer.Flush(); err != nil {
		return protocol.Value{}, c.dropLocked(err)
	}

	if err := c.conn.SetReadDeadline(c.deadline(ctx, c.readTimeout)); err != nil {
		return protocol.Value{}, c.dropLocked(err)
	}
	reply, err := c.reader.ReadReply()
	if err != nil {
		return protocol.Value{}, c.dropLocked(err)
	}
	return reply, nil
}

// deadline picks the earlier of the context deadline and now+timeout.
// A zero timeout means context-only.
func (c *Conn) deadline(ctx context.Context, timeout time.Duration) time.Time {
	var d time.Time
	if timeout > 0 {
		d = time.Now().Add(timeout)
	}
	if ctxd, ok := ctx.Deadline(); ok && (d.IsZero() || ctxd.Before(d)) {
		d = ctxd
	}
	return d
}

// dropLocked closes the broken connection so the next command redials.
// Caller holds c.mu.
func (c *Conn) dropLocked(err error) error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	return fmt.Errorf("command failed on %s: %w", c.addr, err)
}

// Close implements Executor.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// Addr returns the address the Conn dials.
func (c *Conn) Addr() string {
	return c.addr
}
