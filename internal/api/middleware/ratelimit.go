package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mnemonic-fyi/mnemonic/internal/api"
	"github.com/mnemonic-fyi/mnemonic/internal/domain"
	"github.com/mnemonic-fyi/mnemonic/internal/ratelimit"
)

// RateLimit enforces a fixed-window policy keyed by client IP. Responses
// carry X-RateLimit-* headers; denials add Retry-After.
func RateLimit(limiter *ratelimit.Limiter, policy ratelimit.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := limiter.Allow(policy.Key(ClientIP(r)), policy)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(policy.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))

			if !result.Allowed {
				retryAfter := int(time.Until(result.ResetTime).Seconds()) + 1
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				api.HandleError(w, domain.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
