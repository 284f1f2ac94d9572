// Package reduxtest runs an in-process Redis-compatible server for
// tests and examples. It speaks exactly the command surface the
// gateway uses (GET/SET/DEL, HGET/HSET/HMSET/HDEL/HKEYS/HLEN, HSCAN,
// PING, FLUSHALL) over a real TCP socket, so executors and the gateway
// can be exercised end to end without an external store.
//
// Hash fields keep insertion order, which makes HSCAN paging stable
// across a test run. This is a convenience for assertions, not a
// property real stores guarantee.
package reduxtest

import (
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/match"
	"github.com/tidwall/redcon"
)

// defaultScanCount is the page size HSCAN uses when the client sends
// no COUNT hint.
const defaultScanCount = 10

// hash is a field map plus the insertion order of its field names.
type hash struct {
	fields map[string]string
	order  []string
}

func newHash() *hash {
	return &hash{fields: make(map[string]string)}
}

func (h *hash) set(field, value string) bool {
	_, existed := h.fields[field]
	h.fields[field] = value
	if !existed {
		h.order = append(h.order, field)
	}
	return !existed
}

func (h *hash) del(field string) bool {
	if _, ok := h.fields[field]; !ok {
		return false
	}
	delete(h.fields, field)
	for i, f := range h.order {
		if f == field {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return true
}

// Server is the in-process store. Start it with Start, point an
// executor at Addr, Close it when done.
type Server struct {
	ln net.Listener

	mu      sync.Mutex
	strings map[string]string
	hashes  map[string]*hash
}

// Start listens on an ephemeral loopback port and serves until Close.
func Start() (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	s := &Server{
		ln:      ln,
		strings: make(map[string]string),
		hashes:  make(map[string]*hash),
	}

	go func() {
		// Serve returns when the listener closes.
		_ = redcon.Serve(ln,
			s.handle,
			func(conn redcon.Conn) bool { return true },
			func(conn redcon.Conn, err error) {},
		)
	}()

	return s, nil
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Close stops the server.
func (s *Server) Close() error {
	return s.ln.Close()
}

// HashLen reports the current field count of a hash, for test
// assertions that bypass the wire.
func (s *Server) HashLen(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.hashes[key]; ok {
		return len(h.fields)
	}
	return 0
}

func (s *Server) handle(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) == 0 {
		conn.WriteError("ERR empty command")
		return
	}

	name := strings.ToUpper(string(cmd.Args[0]))
	args := make([]string, len(cmd.Args)-1)
	for i := 1; i < len(cmd.Args); i++ {
		args[i-1] = string(cmd.Args[i])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case "PING":
		conn.WriteString("PONG")

	case "SET":
		if len(args) != 2 {
			conn.WriteError("ERR wrong number of arguments for 'set' command")
			return
		}
		s.strings[args[0]] = args[1]
		conn.WriteString("OK")

	case "GET":
		if len(args) != 1 {
			conn.WriteError("ERR wrong number of arguments for 'get' command")
			return
		}
		if _, isHash := s.hashes[args[0]]; isHash {
			conn.WriteError("WRONGTYPE Operation against a key holding the wrong kind of value")
			return
		}
		v, ok := s.strings[args[0]]
		if !ok {
			conn.WriteNull()
			return
		}
		conn.WriteBulkString(v)

	case "DEL":
		if len(args) < 1 {
			conn.WriteError("ERR wrong number of arguments for 'del' command")
			return
		}
		n := 0
		for _, key := range args {
			if _, ok := s.strings[key]; ok {
				delete(s.strings, key)
				n++
			}
			if _, ok := s.hashes[key]; ok {
				delete(s.hashes, key)
				n++
			}
		}
		conn.WriteInt(n)

	case "HSET":
		if len(args) < 3 || len(args)%2 != 1 {
			conn.WriteError("ERR wrong number of arguments for 'hset' command")
			return
		}
		h := s.hash(args[0])
		added := 0
		for i := 1; i < len(args); i += 2 {
			if h.set(args[i], args[i+1]) {
				added++
			}
		}
		conn.WriteInt(added)

	case "HMSET":
		if len(args) < 3 || len(args)%2 != 1 {
			conn.WriteError("ERR wrong number of arguments for 'hmset' command")
			return
		}
		h := s.hash(args[0])
		for i := 1; i < len(args); i += 2 {
			h.set(args[i], args[i+1])
		}
		conn.WriteString("OK")

	case "HGET":
		if len(args) != 2 {
			conn.WriteError("ERR wrong number of arguments for 'hget' command")
			return
		}
		h, ok := s.hashes[args[0]]
		if !ok {
			conn.WriteNull()
			return
		}
		v, ok := h.fields[args[1]]
		if !ok {
			conn.WriteNull()
			return
		}
		conn.WriteBulkString(v)

	case "HDEL":
		if len(args) < 2 {
			conn.WriteError("ERR wrong number of arguments for 'hdel' command")
			return
		}
		h, ok := s.hashes[args[0]]
		if !ok {
			conn.WriteInt(0)
			return
		}
		n := 0
		for _, field := range args[1:] {
			if h.del(field) {
				n++
			}
		}
		if len(h.fields) == 0 {
			delete(s.hashes, args[0])
		}
		conn.WriteInt(n)

	case "HKEYS":
		if len(args) != 1 {
			conn.WriteError("ERR wrong number of arguments for 'hkeys' command")
			return
		}
		h, ok := s.hashes[args[0]]
		if !ok {
			conn.WriteArray(0)
			return
		}
		conn.WriteArray(len(h.order))
		for _, field := range h.order {
			conn.WriteBulkString(field)
		}

	case "HLEN":
		if len(args) != 1 {
			conn.WriteError("ERR wrong number of arguments for 'hlen' command")
			return
		}
		if h, ok := s.hashes[args[0]]; ok {
			conn.WriteInt(len(h.fields))
			return
		}
		conn.WriteInt(0)

	case "HSCAN":
		s.hscan(conn, args)

	case "FLUSHALL":
		s.strings = make(map[string]string)
		s.hashes = make(map[string]*hash)
		conn.WriteString("OK")

	default:
		conn.WriteError("ERR unknown command '" + strings.ToLower(name) + "'")
	}
}

// hash returns the hash at key, creating it on first write.
func (s *Server) hash(key string) *hash {
	h, ok := s.hashes[key]
	if !ok {
		h = newHash()
		s.hashes[key] = h
	}
	return h
}

// hscan pages over a hash's fields in insertion order. The cursor is a
// plain offset into the field list; "0" from the server means the scan
// is complete, mirroring the real store's terminal sentinel.
func (s *Server) hscan(conn redcon.Conn, args []string) {
	if len(args) < 2 {
		conn.WriteError("ERR wrong number of arguments for 'hscan' command")
		return
	}

	cursor, err := strconv.Atoi(args[1])
	if err != nil || cursor < 0 {
		conn.WriteError("ERR invalid cursor")
		return
	}

	pattern := "*"
	count := defaultScanCount
	for i := 2; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "MATCH":
			if i+1 >= len(args) {
				conn.WriteError("ERR syntax error")
				return
			}
			pattern = args[i+1]
			i++
		case "COUNT":
			if i+1 >= len(args) {
				conn.WriteError("ERR syntax error")
				return
			}
			count, err = strconv.Atoi(args[i+1])
			if err != nil || count < 1 {
				conn.WriteError("ERR value is not an integer or out of range")
				return
			}
			i++
		default:
			conn.WriteError("ERR syntax error")
			return
		}
	}

	h, ok := s.hashes[args[0]]
	if !ok {
		writeScanReply(conn, 0, nil, nil)
		return
	}

	// Walk count fields from the cursor offset, keeping the matches.
	// COUNT bounds the walk, not the match count, like the real store.
	if cursor > len(h.order) {
		cursor = len(h.order)
	}
	end := cursor + count
	if end > len(h.order) {
		end = len(h.order)
	}
	var fields, values []string
	for _, field := range h.order[cursor:end] {
		if match.Match(field, pattern) {
			fields = append(fields, field)
			values = append(values, h.fields[field])
		}
	}

	next := end
	if next >= len(h.order) {
		next = 0
	}
	writeScanReply(conn, next, fields, values)
}

func writeScanReply(conn redcon.Conn, cursor int, fields, values []string) {
	conn.WriteArray(2)
	conn.WriteBulkString(strconv.Itoa(cursor))
	conn.WriteArray(len(fields) * 2)
	for i := range fields {
		conn.WriteBulkString(fields[i])
		conn.WriteBulkString(values[i])
	}
}
