package redux

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sharesight/redux/executor"
	"github.com/sharesight/redux/protocol"
)

// fakeStore is an in-memory executor double that records every command
// it receives. Replies can be scripted per command name; unscripted
// commands get a minimal store-like default.
type fakeStore struct {
	mu       sync.Mutex
	commands [][]string
	handler  func(tokens []string) (protocol.Value, error)

	strings map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{strings: make(map[string]string)}
}

func (f *fakeStore) executor() executor.Executor {
	return executor.Func(func(ctx context.Context, tokens ...string) (protocol.Value, error) {
		f.mu.Lock()
		f.commands = append(f.commands, tokens)
		handler := f.handler
		f.mu.Unlock()

		if handler != nil {
			return handler(tokens)
		}
		return f.defaultReply(tokens)
	})
}

func (f *fakeStore) defaultReply(tokens []string) (protocol.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch tokens[0] {
	case "SET":
		f.strings[tokens[1]] = tokens[2]
		return protocol.SimpleStringValue("OK"), nil
	case "GET":
		v, ok := f.strings[tokens[1]]
		if !ok {
			return protocol.NullValue(), nil
		}
		return protocol.BulkStringValue(v), nil
	case "DEL":
		if _, ok := f.strings[tokens[1]]; ok {
			delete(f.strings, tokens[1])
			return protocol.IntegerValue(1), nil
		}
		return protocol.IntegerValue(0), nil
	default:
		return protocol.SimpleStringValue("OK"), nil
	}
}

func (f *fakeStore) sent() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.commands))
	copy(out, f.commands)
	return out
}

func newTestClient(t *testing.T, store *fakeStore, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithExecutor(store.executor())}, opts...)
	client, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSetEncodesValues(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"string passes through", "hello", "hello"},
		{"bytes pass through", []byte("raw"), "raw"},
		{"int renders decimal", 42, "42"},
		{"int64 renders decimal", int64(-7), "-7"},
		{"uint renders decimal", uint(7), "7"},
		{"float renders decimal", 2.5, "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			client := newTestClient(t, store)

			if err := client.Set(context.Background(), "k", tt.value); err != nil {
				t.Fatalf("Set: %v", err)
			}
			sent := store.sent()
			if len(sent) != 1 {
				t.Fatalf("sent %d commands, want 1", len(sent))
			}
			got := sent[0]
			if got[0] != "SET" || got[1] != "k" || got[2] != tt.want {
				t.Errorf("sent %v, want [SET k %s]", got, tt.want)
			}
		})
	}
}

func TestSetEncodesStructured(t *testing.T) {
	store := newFakeStore()
	client := newTestClient(t, store)

	err := client.Set(context.Background(), "k", map[string]interface{}{"a": "b"})
	if err != nil {
		t.Fatal(err)
	}
	enc := store.sent()[0][2]
	if !strings.HasPrefix(enc, "{") {
		t.Errorf("encoded value %q does not start with '{'", enc)
	}
}

func TestGetScalarPassThrough(t *testing.T) {
	store := newFakeStore()
	client := newTestClient(t, store)
	ctx := context.Background()

	if err := client.Set(ctx, "k", "hello"); err != nil {
		t.Fatal(err)
	}
	v, found, err := client.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("key should be found")
	}
	if v != "hello" {
		t.Errorf("Get = %v, want hello", v)
	}
}

func TestGetNumericRendering(t *testing.T) {
	store := newFakeStore()
	client := newTestClient(t, store)
	ctx := context.Background()

	if err := client.Set(ctx, "k", 42); err != nil {
		t.Fatal(err)
	}
	v, _, err := client.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	// Numbers come back as their decimal string form.
	if v != "42" {
		t.Errorf("Get = %v (%T), want string \"42\"", v, v)
	}
}

func TestGetStructuredRoundTrip(t *testing.T) {
	store := newFakeStore()
	client := newTestClient(t, store)
	ctx := context.Background()

	in := map[string]interface{}{"name": "alice", "age": float64(30)}
	if err := client.Set(ctx, "profile", in); err != nil {
		t.Fatal(err)
	}
	v, found, err := client.Get(ctx, "profile")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("key should be found")
	}
	got, ok := v.(map[string]interface{})
	if !ok {
		t.Fatalf("Get = %T, want map", v)
	}
	if got["name"] != "alice" || got["age"] != float64(30) {
		t.Errorf("Get = %v, want %v", got, in)
	}
}

func TestGetAbsent(t *testing.T) {
	store := newFakeStore()
	client := newTestClient(t, store)

	v, found, err := client.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("absence must not be an error, got %v", err)
	}
	if found || v != nil {
		t.Errorf("Get = (%v, %v), want (nil, false)", v, found)
	}
}

func TestGetExecutorFailureIsNotAbsence(t *testing.T) {
	store := newFakeStore()
	boom := errors.New("connection refused")
	store.handler = func(tokens []string) (protocol.Value, error) {
		return protocol.Value{}, boom
	}
	client := newTestClient(t, store)

	_, found, err := client.Get(context.Background(), "k")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped transport error", err)
	}
	if found {
		t.Error("found must be false on failure")
	}
}

func TestErrorReplyBecomesCommandError(t *testing.T) {
	store := newFakeStore()
	store.handler = func(tokens []string) (protocol.Value, error) {
		return protocol.ErrorValue("WRONGTYPE Operation against a key holding the wrong kind of value"), nil
	}
	client := newTestClient(t, store)

	err := client.Set(context.Background(), "k", "v")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("err = %v, want *CommandError", err)
	}
	if cmdErr.Command != "SET" {
		t.Errorf("Command = %q, want SET", cmdErr.Command)
	}
}

func TestGetDecodeFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.strings["bad"] = "{corrupt payload"
	client := newTestClient(t, store)

	_, _, err := client.Get(context.Background(), "bad")
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
	if decErr.Key != "bad" {
		t.Errorf("Key = %q, want bad", decErr.Key)
	}
}

func TestDelIdempotent(t *testing.T) {
	store := newFakeStore()
	client := newTestClient(t, store)
	ctx := context.Background()

	if err := client.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if err := client.Del(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	// Deleting again is not an error.
	if err := client.Del(ctx, "k"); err != nil {
		t.Errorf("second Del: %v", err)
	}
}

func TestClosedClient(t *testing.T) {
	store := newFakeStore()
	client := newTestClient(t, store)
	client.Close()

	if err := client.Set(context.Background(), "k", "v"); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestCloseKeepsCallerExecutorOpen(t *testing.T) {
	store := newFakeStore()
	client := newTestClient(t, store)
	if err := client.Close(); err != nil {
		t.Fatal(err)
	}
	// The executor stayed usable; only the client is closed.
	if _, err := store.executor().Do(context.Background(), "SET", "k", "v"); err != nil {
		t.Errorf("executor should remain open: %v", err)
	}
}
