package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/markdave123-py/docscan/internal/services"
)

// APIKeyFromContext returns the key the request was authorised with.
func APIKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(apiKeyKey).(string)
	return key, ok
}

// APIKey authenticates requests by the X-API-Key header or the api_key query
// parameter and applies the per-key rate limit. When keys is empty no key is
// required and requests are limited per client address instead.
func APIKey(keys map[string]int, limiter *services.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}

			bucket := key
			if len(keys) == 0 {
				bucket = "ip:" + clientIP(r)
			} else if _, ok := keys[key]; !ok {
				msg := "invalid API key"
				if key == "" {
					msg = "API key required"
				}
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", msg)
				return
			}

			if limiter != nil {
				allowed, remaining := limiter.Allow(bucket)
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit(bucket)))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
				if !allowed {
					logrus.WithField("bucket", bucket).Warn("ratelimit: request rejected")
					writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded, try again later")
					return
				}
			}

			ctx := r.Context()
			if key != "" && len(keys) > 0 {
				ctx = context.WithValue(ctx, apiKeyKey, key)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
