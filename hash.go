package redux

import (
	"context"
)

// HSet writes one field of a hash, with the same value encoding as Set.
func (c *Client) HSet(ctx context.Context, hash, field string, value interface{}) error {
	enc, err := c.encode(value)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, "HSET", hash, field, enc)
	return err
}

// HMSet writes a whole mapping into a hash. The mapping is split into
// chunks of at most the configured chunk size (DefaultChunkSize pairs
// unless WithChunkSize says otherwise) and each chunk goes out as one
// bulk write command.
//
// Chunks are independent commands: a failure mid-sequence leaves the
// earlier chunks written. Which fields share a chunk is unspecified,
// since Go maps have no iteration order.
func (c *Client) HMSet(ctx context.Context, hash string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	// Encode everything before sending anything, so an unencodable
	// value fails the call without a partial write.
	pairs := make([]string, 0, len(fields)*2)
	for field, value := range fields {
		enc, err := c.encode(value)
		if err != nil {
			return err
		}
		pairs = append(pairs, field, enc)
	}

	maxTokens := c.chunkSize * 2
	for start := 0; start < len(pairs); start += maxTokens {
		end := start + maxTokens
		if end > len(pairs) {
			end = len(pairs)
		}
		tokens := append([]string{"HMSET", hash}, pairs[start:end]...)
		if _, err := c.do(ctx, tokens...); err != nil {
			return err
		}
	}
	return nil
}

// HDel removes fields from a hash. Each field travels as its own
// protocol argument, so field names containing spaces are deleted
// correctly. Removing absent fields is not an error; with no fields
// the call is a no-op.
func (c *Client) HDel(ctx context.Context, hash string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	tokens := append([]string{"HDEL", hash}, fields...)
	_, err := c.do(ctx, tokens...)
	return err
}

// HKeys lists a hash's field names in store-native order (not
// guaranteed sorted). An absent hash yields an empty list.
func (c *Client) HKeys(ctx context.Context, hash string) ([]string, error) {
	reply, err := c.do(ctx, "HKEYS", hash)
	if err != nil {
		return nil, err
	}
	return reply.Strings()
}

// HGet reads one field of a hash, with the same absence and decoding
// contract as Get: (value, true, nil) when present, (nil, false, nil)
// when the field or hash is absent, an error when the store could not
// be asked or the stored data is malformed.
func (c *Client) HGet(ctx context.Context, hash, field string) (interface{}, bool, error) {
	reply, err := c.do(ctx, "HGET", hash, field)
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
		return nil, false, &DecodeError{Key: hash, Field: field, Err: err}
	}
	return v, true, nil
}
