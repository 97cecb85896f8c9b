package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
)

// RedisRateLimiter é uma janela fixa por IP e rota, compartilhada entre
// instâncias. Usado nas rotas de OTP.
type RedisRateLimiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRedisRateLimiter(rdb redis.Scripter, limit int, window time.Duration) *RedisRateLimiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisRateLimiter{rdb: rdb, limit: limit, window: window, prefix: "rl"}
}

func (rl *RedisRateLimiter) key(c *gin.Context) string {
	return rl.prefix + ":" + c.FullPath() + ":" + c.ClientIP()
}

// Middleware deixa passar quando o Redis falha (fail-open).
func (rl *RedisRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := rl.incr(c.Request.Context(), rl.key(c))
		if err != nil {
			slog.Warn("redis rate limiter error", "err", err)
			c.Next()
			return
		}

		if count > int64(rl.limit) {
			httperr.TooManyRequests(c, "rate_limited", "Too many requests, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RedisRateLimiter) incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, rl.rdb, []string{key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}
