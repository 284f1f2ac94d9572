package redux_test

import (
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/sharesight/redux/executor"
)

// goRedisExecutor builds an executor over a fresh go-redis client
// pointed at addr. The underlying client closes with the test.
func goRedisExecutor(t *testing.T, addr string) executor.Executor {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	return executor.NewGoRedis(client)
}
