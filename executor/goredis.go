package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sharesight/redux/protocol"
)

// GoRedis is an Executor backed by a go-redis client, for callers that
// already manage one (pooling, sentinel and cluster topology stay the
// client's concern). The executor does not own the client: Close is a
// no-op and the caller keeps responsibility for the client lifecycle.
type GoRedis struct {
	client redis.UniversalClient
}

// NewGoRedis wraps an existing go-redis client.
func NewGoRedis(client redis.UniversalClient) *GoRedis {
	return &GoRedis{client: client}
}

// Do implements Executor via the client's generic Do command.
func (e *GoRedis) Do(ctx context.Context, tokens ...string) (protocol.Value, error) {
	if len(tokens) == 0 {
		return protocol.Value{}, ErrEmptyCommand
	}

	args := make([]interface{}, len(tokens))
	for i, tok := range tokens {
		args[i] = tok
	}

	res, err := e.client.Do(ctx, args...).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return protocol.NullValue(), nil
		}
		// Error replies from the store become error Values; only
		// transport problems travel as Go errors.
		var redisErr redis.Error
		if errors.As(err, &redisErr) {
			return protocol.ErrorValue(redisErr.Error()), nil
		}
		return protocol.Value{}, err
	}
	return convertReply(res)
}

// convertReply maps go-redis reply trees onto protocol.Value.
func convertReply(res interface{}) (protocol.Value, error) {
	switch r := res.(type) {
	case nil:
		return protocol.NullValue(), nil
	case string:
		return protocol.BulkStringValue(r), nil
	case []byte:
		return protocol.BulkStringValue(string(r)), nil
	case int64:
		return protocol.IntegerValue(r), nil
	case bool:
		if r {
			return protocol.IntegerValue(1), nil
		}
		return protocol.IntegerValue(0), nil
	case []interface{}:
		elems := make([]protocol.Value, len(r))
		for i, item := range r {
			elem, err := convertReply(item)
			if err != nil {
				return protocol.Value{}, err
			}
			elems[i] = elem
		}
		return protocol.ArrayValue(elems...), nil
	default:
		return protocol.Value{}, fmt.Errorf("unsupported reply type %T", res)
	}
}

// Close implements Executor. The wrapped client is left open.
func (e *GoRedis) Close() error {
	return nil
}
