package protocol

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

const (
	// CRLF terminates every RESP line.
	CRLF = "\r\n"

	// maxBulkSize caps bulk string payloads at 512MB, matching the
	// store's own proto-max-bulk-len default.
	maxBulkSize = 512 * 1024 * 1024

	// maxArraySize caps array replies.
	maxArraySize = 1024 * 1024
)

var crlfBytes = []byte(CRLF)

// Reader parses RESP replies from a stream.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r in a buffered RESP reply reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Reset discards buffered state and reads from a new stream.
func (r *Reader) Reset(rd io.Reader) {
	r.br.Reset(rd)
}

// ReadReply reads the next complete reply, descending into array
// replies recursively.
func (r *Reader) ReadReply() (Value, error) {
	typeByte, err := r.br.ReadByte()
	if err != nil {
		return Value{}, err
	}

	switch ValueType(typeByte) {
	case TypeSimpleString, TypeError:
		line, err := r.readLine()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: ValueType(typeByte), Data: line}, nil

	case TypeInteger:
		line, err := r.readLine()
		if err != nil {
			return Value{}, err
		}
		n, err := parseInt64(line)
		if err != nil {
			return Value{}, fmt.Errorf("invalid integer reply: %q", line)
		}
		return Value{Type: TypeInteger, Integer: n}, nil

	case TypeBulkString:
		return r.readBulkString()

	case TypeArray:
		return r.readArray()

	default:
		return Value{}, fmt.Errorf("unknown RESP type byte %q", typeByte)
	}
}

func (r *Reader) readBulkString() (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}
	length, err := parseInt64(line)
	if err != nil {
		return Value{}, fmt.Errorf("invalid bulk string length: %q", line)
	}
	if length == -1 {
		return Value{Type: TypeBulkString, IsNull: true}, nil
	}
	if length < 0 || length > maxBulkSize {
		return Value{}, fmt.Errorf("bulk string length %d out of range", length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r.br, data); err != nil {
		return Value{}, err
	}
	if err := r.expectCRLF(); err != nil {
		return Value{}, err
	}
	return Value{Type: TypeBulkString, Data: data}, nil
}

func (r *Reader) readArray() (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}
	length, err := parseInt64(line)
	if err != nil {
		return Value{}, fmt.Errorf("invalid array length: %q", line)
	}
	if length == -1 {
		return Value{Type: TypeArray, IsNull: true}, nil
	}
	if length < 0 || length > maxArraySize {
		return Value{}, fmt.Errorf("array length %d out of range", length)
	}

	array := make([]Value, length)
	for i := int64(0); i < length; i++ {
		elem, err := r.ReadReply()
		if err != nil {
			return Value{}, err
		}
		array[i] = elem
	}
	return Value{Type: TypeArray, Array: array}, nil
}

// readLine reads a CRLF-terminated line and strips the terminator.
func (r *Reader) readLine() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read line: %w", err)
	}
	if len(line) < 2 || !bytes.HasSuffix(line, crlfBytes) {
		return nil, fmt.Errorf("malformed line terminator in %q", line)
	}
	return line[:len(line)-2], nil
}

// expectCRLF consumes the terminator that follows bulk string payloads.
func (r *Reader) expectCRLF() error {
	crlf := make([]byte, 2)
	if _, err := io.ReadFull(r.br, crlf); err != nil {
		return fmt.Errorf("read trailing CRLF: %w", err)
	}
	if !bytes.Equal(crlf, crlfBytes) {
		return fmt.Errorf("expected CRLF after bulk payload, got %q", crlf)
	}
	return nil
}

// parseInt64 parses a decimal integer from a byte slice without
// allocating.
func parseInt64(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("empty integer")
	}

	i := 0
	neg := false
	switch b[0] {
	case '-':
		neg = true
		i = 1
	case '+':
		i = 1
	}
	if i >= len(b) {
		return 0, fmt.Errorf("no digits")
	}

	var n int64
	for ; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return 0, fmt.Errorf("bad digit %q", b[i])
		}
		if n > (1<<63-1)/10 {
			return 0, fmt.Errorf("integer overflow")
		}
		n = n*10 + int64(b[i]-'0')
	}
	if neg {
		return -n, nil
	}
	return n, nil
}
