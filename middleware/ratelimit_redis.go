package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"contentlib/pkg/logger"
	"contentlib/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

var timeNow = time.Now

// RedisRateLimitMiddleware is a fixed-window limiter shared by every
// instance pointed at the same Redis. Each window admits
// floor(rps*window)+burst requests per client IP. A nil client falls back
// to the in-memory limiter.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) func(http.Handler) http.Handler {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	windowSeconds := int(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowedPerWindow := int64(rps*float64(windowSeconds)) + int64(burst)
	retryAfter := strconv.Itoa(windowSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			bucket := timeNow().Unix() / int64(windowSeconds)
			key := fmt.Sprintf("rl:ip:%s:%d", clientIP(r), bucket)

			cnt, err := client.Incr(ctx, key).Result()
			if err != nil {
				logger.Sugar.Errorf("Rate limit check failed: %v", err)
				http.Error(w, "Rate limit check failed", http.StatusInternalServerError)
				return
			}
			if cnt == 1 {
				_ = client.Expire(ctx, key, time.Duration(windowSeconds+1)*time.Second).Err()
			}
			if cnt > allowedPerWindow {
				metrics.RateLimitRejected.WithLabelValues("redis").Inc()
				tooManyRequests(w, retryAfter)
				return
			}
			metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
			next.ServeHTTP(w, r)
		})
	}
}
