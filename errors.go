package redux

import (
	"errors"
	"fmt"
)

// Error types for specific failure scenarios
var (
	// ErrInvalidConfig indicates invalid client options
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClosed indicates the client has been closed
	ErrClosed = errors.New("client is closed")

	// ErrScanNotConverged indicates a scan exceeded its iteration
	// budget without the store returning the terminal cursor
	ErrScanNotConverged = errors.New("scan did not converge")
)

// CommandError represents an error reply sent by the store for a
// command the client issued. It is distinct from transport errors,
// which surface as whatever error the executor returned.
type CommandError struct {
	Command string // command name, e.g. "HMSET"
	Message string // the store's error text
}

// Error implements the error interface
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Command, e.Message)
}

// DecodeError represents stored data that claims to be structured (it
// begins with '{') but cannot be decoded.
type DecodeError struct {
	Key   string // key the value was read from
	Field string // hash field, empty for plain keys
	Err   error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed stored value at %s[%s]: %v", e.Key, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed stored value at %s: %v", e.Key, e.Err)
}

// Unwrap returns the wrapped error
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ScanError represents a hash scan that terminated abnormally.
type ScanError struct {
	Hash    string
	Pattern string
	Pages   int // pages fetched before the failure
	Err     error
}

// Error implements the error interface
func (e *ScanError) Error() string {
	return fmt.Sprintf("scan of %s (match %s) aborted after %d pages: %v", e.Hash, e.Pattern, e.Pages, e.Err)
}

// Unwrap returns the wrapped error
func (e *ScanError) Unwrap() error {
	return e.Err
}
