package executor

import (
	"context"
	"sync"

	"github.com/sharesight/redux/protocol"
)

// Pool is an Executor multiplexing commands over a bounded set of
// Conns, so independent callers do not serialize behind a single
// connection. Connections are created on demand up to the configured
// size and reused afterwards; a connection that saw a transport error
// is discarded rather than returned to the pool.
type Pool struct {
	addr string
	opts []ConnOption

	idle chan *Conn

	mu      sync.Mutex
	created int
	size    int
	closed  bool
}

// NewPool returns a Pool of at most size connections to addr. The
// ConnOptions apply to every connection the pool creates. No
// connection is established until the first command.
func NewPool(addr string, size int, opts ...ConnOption) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		addr: addr,
		opts: opts,
		idle: make(chan *Conn, size),
		size: size,
	}
}

// Do implements Executor.
func (p *Pool) Do(ctx context.Context, tokens ...string) (protocol.Value, error) {
	if len(tokens) == 0 {
		return protocol.Value{}, ErrEmptyCommand
	}

	conn, err := p.get(ctx)
	if err != nil {
		return protocol.Value{}, err
	}

	reply, err := conn.Do(ctx, tokens...)
	if err != nil {
		p.discard(conn)
		return protocol.Value{}, err
	}
	p.put(conn)
	return reply, nil
}

// get returns an idle connection, creates one while under the size
// limit, or blocks until a connection is returned.
func (p *Pool) get(ctx context.Context) (*Conn, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.mu.Unlock()

	select {
	case conn := <-p.idle:
		return conn, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()
		conn, err := Dial(p.addr, p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		return conn, nil
	}
	p.mu.Unlock()

	select {
	case conn := <-p.idle:
		return conn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// put returns a healthy connection to the pool.
func (p *Pool) put(conn *Conn) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		conn.Close()
		return
	}
	select {
	case p.idle <- conn:
	default:
		// Pool buffer full; shouldn't happen, but never block here.
		p.discard(conn)
	}
}

// discard closes a connection and frees its slot.
func (p *Pool) discard(conn *Conn) {
	conn.Close()
	p.mu.Lock()
	p.created--
	p.mu.Unlock()
}

// Close implements Executor, closing all idle connections. Connections
// currently in flight are closed as they are returned.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	for {
		select {
		case conn := <-p.idle:
			conn.Close()
		default:
			return nil
		}
	}
}
