package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/willora/willora-backend/pkg/clientip"
	"golang.org/x/time/rate"
)

// AI passthrough rate limit: per-IP, different limits for auth vs anonymous.
// Every call costs upstream quota, so these are well below the global limit.
const (
	aiAuthPerMinute = 20
	aiAuthBurst     = 5
	aiAnonPerMinute = 6
	aiAnonBurst     = 3
)

var (
	aiAuthLimiters = newLimiterSet(rate.Limit(aiAuthPerMinute/60.0), aiAuthBurst)
	aiAnonLimiters = newLimiterSet(rate.Limit(aiAnonPerMinute/60.0), aiAnonBurst)
)

func isAIPath(path string) bool {
	return strings.HasPrefix(path, "/api/ai/") || path == "/api/chat"
}

// hasValidToken reports whether the request carries a token that parses.
func hasValidToken(tokens TokenParser, r *http.Request) bool {
	token, err := bearerToken(r)
	if err != nil {
		return false
	}
	_, err = tokens.Parse(token)
	return err == nil
}

// AIRateLimit applies rate limiting only to POST /api/ai/* and POST /api/chat.
// Requests with a valid token get the larger budget. Returns 429 with headers when exceeded.
func AIRateLimit(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || !isAIPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			limiters, limit := aiAnonLimiters, aiAnonBurst
			if hasValidToken(tokens, r) {
				limiters, limit = aiAuthLimiters, aiAuthBurst
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))

			if !limiters.allow(clientip.RealClientIP(r)) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				writeTooMany(w, "Too many AI requests. Please slow down.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
