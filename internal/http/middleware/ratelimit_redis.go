package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed window counter shared by every API instance. It
// fails open when Redis is unreachable.
type RedisLimiter struct {
	client  redis.Scripter
	script  *redis.Script
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

func NewRedisLimiter(client redis.Scripter, prefix string, logger *slog.Logger) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client:  client,
		script:  redis.NewScript(rateLimitScript),
		prefix:  prefix,
		timeout: 250 * time.Millisecond,
		logger:  logger,
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	if l.prefix != "" {
		key = l.prefix + ":" + key
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		if l.logger != nil {
			l.logger.Error("rate limit check failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return true
	}
	return allowed == 1
}
