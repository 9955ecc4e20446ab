package router

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
)

// Throttle limits each client IP on the wrapped route. scope separates the
// counters of different routes. A limiter failure lets the request through.
func (r *Router) Throttle(scope string) Middleware {
	return func(next http.Handler) http.Handler {
		if r.limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			res, err := r.limiter.Allow(req.Context(), scope+":"+req.RemoteAddr)
			if err != nil {
				slog.WarnContext(req.Context(), "rate limiter unavailable", "scope", scope, "error", err)
				next.ServeHTTP(w, req)
				return
			}

			reset := strconv.Itoa(int(math.Ceil(res.ResetIn.Seconds())))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", reset)

			if !res.Allowed {
				w.Header().Set("Retry-After", reset)
				writeJSON(w, errorResponse{Message: "Too many requests, please try again later"}, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}
