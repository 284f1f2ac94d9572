// Package codec defines the serialization contract used by the gateway
// for structured values, and provides the default JSON implementation.
//
// The gateway stores scalars (strings and numbers) verbatim and routes
// everything else through a Codec. Encoded output MUST begin with '{':
// that prefix is the sole signal the gateway uses on read to decide
// whether a stored string needs decoding.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Codec serializes structured values to strings and back. Encode must
// produce a string whose first byte is '{' for every input; Decode must
// fail loudly on input it did not produce.
type Codec interface {
	Encode(v interface{}) (string, error)
	Decode(s string) (interface{}, error)
}

// envelope wraps every encoded payload in a single-key JSON object so
// the output always starts with '{' (a bare JSON array or quoted string
// would not) and so Decode can tell genuinely encoded payloads apart
// from raw strings that merely begin with a brace.
type envelope struct {
	V interface{} `json:"v"`
}

// jsonCodec is the default Codec. Values round-trip through
// encoding/json, so decoded structured values come back as
// map[string]interface{}, []interface{}, float64, bool and string.
type jsonCodec struct{}

// JSON returns the default JSON-backed Codec.
func JSON() Codec {
	return jsonCodec{}
}

func (jsonCodec) Encode(v interface{}) (string, error) {
	data, err := json.Marshal(envelope{V: v})
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}
	return string(data), nil
}

func (jsonCodec) Decode(s string) (interface{}, error) {
	if !strings.HasPrefix(s, "{") {
		return nil, fmt.Errorf("decode value: input does not start with '{'")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.DisallowUnknownFields()

	var env struct {
		V json.RawMessage `json:"v"`
	}
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	if env.V == nil {
		return nil, fmt.Errorf("decode value: missing payload")
	}
	if dec.More() {
		return nil, fmt.Errorf("decode value: trailing data after payload")
	}

	var v interface{}
	if err := json.Unmarshal(env.V, &v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return v, nil
}
