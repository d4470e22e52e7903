package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCandidates are tried in order when REDIS_ADDR is unset: the compose
// service name in CI, a default local install, then the test profile port.
var redisCandidates = []string{"redis:6379", "localhost:6379", "localhost:56379"}

// TestRedisAddr returns the first reachable Redis address.
func TestRedisAddr() (string, bool) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr, pingRedis(addr)
	}
	for _, addr := range redisCandidates {
		if pingRedis(addr) {
			return addr, true
		}
	}
	return "", false
}

func pingRedis(addr string) bool {
	c := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return c.Ping(ctx).Err() == nil
}

// reserveRedisDB claims a logical DB in 1..15 through a lease key in DB 0 so
// parallel packages never flush each other's data. TEST_REDIS_DB pins one.
func reserveRedisDB(tb testing.TB, addr string) int {
	tb.Helper()
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		tb.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	for db := 1; db <= 15; db++ {
		lease := fmt.Sprintf("intego360:testutil:redis-db:%d", db)
		ok, err := meta.SetNX(ctx, lease, owner, 30*time.Minute).Result()
		if err != nil || !ok {
			continue
		}
		tb.Cleanup(func() {
			relCtx, relCancel := context.WithTimeout(context.Background(), pingTimeout)
			defer relCancel()
			if err := meta.Del(relCtx, lease).Err(); err != nil {
				tb.Logf("release %s: %v", lease, err)
			}
			closeQuietly(tb, "redis meta client", meta)
		})
		return db
	}
	closeQuietly(tb, "redis meta client", meta)
	tb.Logf("no free redis db lease, sharing db 1")
	return 1
}

// SetupTestRedis returns a client on an empty, reserved logical database.
func SetupTestRedis(tb testing.TB) *redis.Client {
	tb.Helper()
	addr, ok := TestRedisAddr()
	if !ok {
		unavailable(tb, required("TEST_REQUIRE_REDIS"), "redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: reserveRedisDB(tb, addr)})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		closeQuietly(tb, "redis client", client)
		unavailable(tb, required("TEST_REQUIRE_REDIS"), "redis at %s unusable: %v", addr, err)
	}
	return client
}
