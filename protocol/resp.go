package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType identifies the RESP type of a reply.
type ValueType byte

const (
	TypeSimpleString ValueType = '+'
	TypeError        ValueType = '-'
	TypeInteger      ValueType = ':'
	TypeBulkString   ValueType = '$'
	TypeArray        ValueType = '*'
)

// Value is a parsed RESP reply. A reply is one of: a simple string, an
// error, an integer, a bulk string (possibly null), or an array of
// further values (possibly null, possibly nested).
type Value struct {
	Type    ValueType
	Data    []byte
	Integer int64
	Array   []Value
	IsNull  bool
}

// Nil reports whether the reply is a null bulk string or null array,
// i.e. the store's "no such key/field" answer.
func (v Value) Nil() bool {
	return v.IsNull
}

// IsError reports whether the reply is a RESP error.
func (v Value) IsError() bool {
	return v.Type == TypeError
}

// ErrorText returns the server's error message for error replies and
// the empty string otherwise.
func (v Value) ErrorText() string {
	if v.Type == TypeError {
		return string(v.Data)
	}
	return ""
}

// Text returns the reply rendered as a string. Integers render in
// decimal, null values render empty.
func (v Value) Text() string {
	switch v.Type {
	case TypeSimpleString, TypeError:
		return string(v.Data)
	case TypeInteger:
		return strconv.FormatInt(v.Integer, 10)
	case TypeBulkString:
		if v.IsNull {
			return ""
		}
		return string(v.Data)
	default:
		return ""
	}
}

// Int returns the integer value of an integer reply, or 0.
func (v Value) Int() int64 {
	return v.Integer
}

// Strings flattens an array reply into its elements' text forms.
// Returns an error for non-array replies or arrays containing nested
// arrays.
func (v Value) Strings() ([]string, error) {
	if v.Type != TypeArray {
		return nil, fmt.Errorf("expected array reply, got %s", v.describe())
	}
	if v.IsNull {
		return nil, nil
	}
	out := make([]string, len(v.Array))
	for i, item := range v.Array {
		if item.Type == TypeArray {
			return nil, fmt.Errorf("unexpected nested array at element %d", i)
		}
		out[i] = item.Text()
	}
	return out, nil
}

// describe renders the value for error messages.
func (v Value) describe() string {
	switch v.Type {
	case TypeSimpleString:
		return "simple string"
	case TypeError:
		return "error"
	case TypeInteger:
		return "integer"
	case TypeBulkString:
		if v.IsNull {
			return "null bulk string"
		}
		return "bulk string"
	case TypeArray:
		if v.IsNull {
			return "null array"
		}
		return "array"
	default:
		return fmt.Sprintf("unknown type %c", byte(v.Type))
	}
}

// String implements fmt.Stringer for debugging output.
func (v Value) String() string {
	if v.Type == TypeArray {
		if v.IsNull {
			return "(nil)"
		}
		parts := make([]string, len(v.Array))
		for i, item := range v.Array {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	if v.IsNull {
		return "(nil)"
	}
	return v.Text()
}

// SimpleStringValue builds a simple string Value. Used by tests and by
// executor implementations that synthesize replies.
func SimpleStringValue(s string) Value {
	return Value{Type: TypeSimpleString, Data: []byte(s)}
}

// BulkStringValue builds a bulk string Value.
func BulkStringValue(s string) Value {
	return Value{Type: TypeBulkString, Data: []byte(s)}
}

// NullValue builds a null bulk string Value.
func NullValue() Value {
	return Value{Type: TypeBulkString, IsNull: true}
}

// IntegerValue builds an integer Value.
func IntegerValue(n int64) Value {
	return Value{Type: TypeInteger, Integer: n}
}

// ErrorValue builds an error Value carrying a server error message.
func ErrorValue(msg string) Value {
	return Value{Type: TypeError, Data: []byte(msg)}
}

// ArrayValue builds an array Value from its elements.
func ArrayValue(elems ...Value) Value {
	return Value{Type: TypeArray, Array: elems}
}
