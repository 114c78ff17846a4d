package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/willora/willora-backend/pkg/clientip"
)

const (
	// RateLimitWindow is the length of one counting window.
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the number of requests an IP may make per window.
	RateLimitMaxRequests = 100
	// RateLimitKeyPrefix is the Redis key prefix for request counters.
	RateLimitKeyPrefix = "willora:ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs.
	BlockedIPKeyPrefix = "willora:blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked after exceeding the limit.
	BlockedIPDuration = 15 * time.Minute
)

// RateLimitMiddleware counts requests per client IP in Redis and blocks an IP for
// BlockedIPDuration once it exceeds RateLimitMaxRequests in a window. Redis
// failures let the request through.
func RateLimitMiddleware(client *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := clientip.RealClientIP(r)
			blockedKey := BlockedIPKeyPrefix + ip

			blocked, err := client.Exists(ctx, blockedKey).Result()
			if err == nil && blocked > 0 {
				writeTooMany(w, "Your IP has been temporarily blocked due to excessive requests. Please try again later.")
				return
			}

			counterKey := RateLimitKeyPrefix + ip
			count, err := client.Incr(ctx, counterKey).Result()
			if err != nil {
				log.Printf("⚠️  Rate limiter unavailable: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				// First request of the window starts its TTL.
				client.Expire(ctx, counterKey, RateLimitWindow)
			}

			if count > RateLimitMaxRequests {
				if err := client.Set(ctx, blockedKey, "1", BlockedIPDuration).Err(); err != nil {
					log.Printf("⚠️  Failed to block IP %s: %v", ip, err)
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(BlockedIPDuration.Seconds())))
				writeTooMany(w, fmt.Sprintf("Rate limit exceeded. Please try again in %d minutes.", int(BlockedIPDuration.Minutes())))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(RateLimitMaxRequests-count, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(RateLimitWindow).Unix(), 10))
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooMany(w http.ResponseWriter, message string) {
	writeMessage(w, http.StatusTooManyRequests, message)
}
