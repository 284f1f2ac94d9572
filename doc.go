// Package redux is a transparent key/value and hash-access layer on
// top of a Redis-compatible store. Callers store arbitrary Go values
// under string keys without serializing by hand: strings pass through
// unchanged, numbers render as decimal strings, and everything else
// round-trips through a codec whose output is recognized on read by
// its '{' prefix. Large hashes are paginated safely with cursor-driven
// scans.
//
// Basic usage:
//
//	client, err := redux.New(
//		redux.WithAddr("localhost:6379"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx := context.Background()
//	client.Set(ctx, "greeting", "hello")
//	client.Set(ctx, "profile", map[string]interface{}{"name": "alice"})
//
//	v, found, err := client.Get(ctx, "profile")
//
// Hashes get field-level access with the same encoding policy, bulk
// writes split into bounded chunks, and two scanning modes:
//
//	// Eager: one merged mapping.
//	all, err := client.HScan(ctx, "sessions", "user:*")
//
//	// Streaming: bounded memory, one callback per page.
//	err = client.HScanEach(ctx, "sessions", "user:*", func(page map[string]string) error {
//		for field, value := range page {
//			process(field, value)
//		}
//		return nil
//	})
//
// The library supports:
//
//   - Transparent scalar/structured value encoding with a pluggable codec
//   - Chunked bulk hash writes bounded by a configurable pair count
//   - Cursor-driven hash scans with an iteration budget guarding
//     against stores that never return the terminal cursor
//   - Pluggable command execution: a dialed connection, a connection
//     pool, or an existing go-redis client (package executor)
//   - An in-process Redis-compatible server for tests (package reduxtest)
//
// Transactions, expiration, pub/sub, cluster topology and
// authentication are out of scope; the executor in use may provide
// some of these concerns itself.
package redux
