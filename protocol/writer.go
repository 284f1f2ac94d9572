package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Writer emits Redis commands as RESP arrays of bulk strings.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter wraps w in a buffered RESP command writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// Reset discards buffered state and writes to a new stream.
func (w *Writer) Reset(wr io.Writer) {
	w.bw.Reset(wr)
}

// WriteCommand buffers one command. The first token is the command
// name, the rest are its arguments; every token travels as a bulk
// string, so tokens may contain spaces, CRLF or arbitrary bytes.
// Call Flush to put the command on the wire.
func (w *Writer) WriteCommand(tokens ...string) error {
	if len(tokens) == 0 {
		return fmt.Errorf("empty command")
	}
	if err := w.writeHeader('*', len(tokens)); err != nil {
		return err
	}
	for _, tok := range tokens {
		if err := w.writeBulkString(tok); err != nil {
			return err
		}
	}
	return nil
}

// Flush sends all buffered commands.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

func (w *Writer) writeBulkString(s string) error {
	if err := w.writeHeader('$', len(s)); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(s); err != nil {
		return err
	}
	return w.writeCRLF()
}

func (w *Writer) writeHeader(marker byte, n int) error {
	if err := w.bw.WriteByte(marker); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(strconv.Itoa(n)); err != nil {
		return err
	}
	return w.writeCRLF()
}

func (w *Writer) writeCRLF() error {
	_, err := w.bw.WriteString(CRLF)
	return err
}
