// Package executor provides the command execution contract the gateway
// delegates to, together with three implementations: a single-connection
// RESP executor, a fixed-size connection pool, and an adapter over
// github.com/redis/go-redis.
//
// An Executor is a synchronous request/response channel to the store:
// it takes one command as an ordered sequence of string tokens and
// returns the parsed reply. Transport failures surface as error
// returns; error replies sent by the store surface as protocol.Value
// with IsError set, so callers can tell "the store refused" apart from
// "the store is unreachable".
package executor

import (
	"context"
	"errors"

	"github.com/sharesight/redux/protocol"
)

// ErrClosed indicates a command was issued on a closed executor.
var ErrClosed = errors.New("executor is closed")

// ErrEmptyCommand indicates Do was called with no tokens.
var ErrEmptyCommand = errors.New("empty command")

// Executor executes one command against the store and returns its
// reply. Implementations must be safe for concurrent use.
type Executor interface {
	// Do sends the command named by tokens[0] with tokens[1:] as
	// arguments and blocks for the reply.
	Do(ctx context.Context, tokens ...string) (protocol.Value, error)

	// Close releases the executor's resources. Do calls made after
	// Close return ErrClosed.
	Close() error
}

// Func adapts a plain function to the Executor interface. Close is a
// no-op. Intended for tests and in-process fakes.
type Func func(ctx context.Context, tokens ...string) (protocol.Value, error)

// Do implements Executor.
func (f Func) Do(ctx context.Context, tokens ...string) (protocol.Value, error) {
	return f(ctx, tokens...)
}

// Close implements Executor.
func (f Func) Close() error { return nil }
