// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/multisolucioneslv/erp-assistant/internal/ratelimit"
)

// RateLimitMiddleware throttles requests per authenticated user. It MUST be
// used AFTER the JWT middleware so the identity claims are in the context.
func RateLimitMiddleware(limiter *ratelimit.MemoryRateLimiter, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, okUser := UserIDFrom(r.Context())
			tenantID, okTenant := TenantIDFrom(r.Context())
			if !okUser || !okTenant {
				writeAuthError(w, http.StatusUnauthorized, "missing identity")
				return
			}

			status := limiter.Allow(ratelimit.UserKey(tenantID, userID))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", status.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", status.ResetTime.Unix()))

			if !status.Allowed {
				log.Printf("[RateLimit] Blocked %s request for tenant %d user %d", name, tenantID, userID)
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", status.RetryAfter.Seconds()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error":      "Too many requests. Please slow down.",
					"retryAfter": int(status.RetryAfter.Seconds()),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
