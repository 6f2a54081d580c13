package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"jokenpo/internal/service"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	UseRedis(rdb)
	t.Cleanup(func() {
		UseRedis(nil)
		rdb.Close()
	})
	return rdb
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	rdb := testRedis(t)

	w := 2 * time.Second
	limit := 2
	rdb.Del(context.Background(), "rl:2:192.0.2.1")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", RedisRateLimit(limit, w), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < limit; i++ {
		if code := do(); code != 200 {
			t.Fatalf("expected 200 got %d", code)
		}
	}
	if code := do(); code != 429 {
		t.Fatalf("expected 429 got %d", code)
	}
}

func TestPlayRateLimitPerPlayer(t *testing.T) {
	testRedis(t)
	service.InitJWT("test-secret")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/play", OptionalJWT(), PlayRateLimit(1, 5*time.Second), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tokenA, _ := service.GenerateJWT(uuid.NewString())
	tokenB, _ := service.GenerateJWT(uuid.NewString())
	do := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/play", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	if do(tokenA) != 200 || do(tokenB) != 200 {
		t.Fatalf("first play of each player must pass")
	}
	if code := do(tokenA); code != 429 {
		t.Fatalf("expected 429 for the second play, got %d", code)
	}
}
