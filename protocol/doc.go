// Package protocol implements the client side of the Redis Serialization
// Protocol (RESP): a Writer that emits commands as arrays of bulk strings
// and a Reader that parses server replies, including the nested array
// replies produced by cursor-based scan commands.
//
// The package is transport-agnostic; it operates on io.Reader/io.Writer
// pairs and performs its own buffering. Higher layers (package executor)
// own connections, deadlines and concurrency.
package protocol
