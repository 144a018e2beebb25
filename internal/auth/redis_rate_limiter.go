package auth

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var loginRateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// LoginRateLimiter bounds login attempts per subject (normalised email).
// Implementations return allowed=false with a retry-after hint once the
// subject has exhausted its attempts for the current window.
type LoginRateLimiter interface {
	Allow(ctx context.Context, subject string) (allowed bool, retryAfterSeconds int, err error)
}

// RedisLoginRateLimiter implements distributed login throttling using Redis.
type RedisLoginRateLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLoginRateLimiter(client redis.UniversalClient, prefix string, limitPerMinute int) *RedisLoginRateLimiter {
	trimmedPrefix := strings.TrimSpace(prefix)
	if trimmedPrefix == "" {
		trimmedPrefix = "paydesk:rate_limit"
	}
	trimmedPrefix = strings.TrimSuffix(trimmedPrefix, ":")

	return &RedisLoginRateLimiter{
		client: client,
		prefix: trimmedPrefix,
		limit:  limitPerMinute,
		window: time.Minute,
	}
}

func (r *RedisLoginRateLimiter) Allow(ctx context.Context, subject string) (bool, int, error) {
	if r == nil || r.client == nil || r.limit <= 0 {
		return true, 0, nil
	}

	normalizedSubject := strings.ToLower(strings.TrimSpace(subject))
	if normalizedSubject == "" {
		return true, 0, nil
	}

	key := fmt.Sprintf("%s:login:%s", r.prefix, normalizedSubject)
	rawResult, err := loginRateLimitScript.Run(ctx, r.client, []string{key}, r.window.Milliseconds()).Result()
	if err != nil {
		return false, 0, err
	}

	values, ok := rawResult.([]interface{})
	if !ok || len(values) != 2 {
		return false, 0, fmt.Errorf("unexpected redis limiter response shape: %T", rawResult)
	}

	currentCount, ok := values[0].(int64)
	if !ok {
		return false, 0, fmt.Errorf("unexpected redis limiter count type: %T", values[0])
	}

	ttlMs, ok := values[1].(int64)
	if !ok {
		return false, 0, fmt.Errorf("unexpected redis limiter ttl type: %T", values[1])
	}
	if ttlMs < 0 {
		ttlMs = r.window.Milliseconds()
	}

	if int(currentCount) <= r.limit {
		return true, 0, nil
	}

	retryAfter := int(math.Ceil(float64(ttlMs) / 1000.0))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return false, retryAfter, nil
}
