package redux

import (
	"strconv"
	"strings"
)

// encode classifies a value for the string-only wire: strings pass
// through unchanged, numbers render in decimal, everything else goes
// through the codec, whose output always begins with '{'.
func (c *Client) encode(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return c.codec.Encode(v)
	}
}

// decode reverses the policy. The '{' prefix is the sole signal that a
// stored string carries encoded structured data; everything else is
// returned verbatim. Numbers therefore come back as their decimal
// string form, same as they traveled.
func (c *Client) decode(stored string) (interface{}, error) {
	if strings.HasPrefix(stored, "{") {
		return c.codec.Decode(stored)
	}
	return stored, nil
}
