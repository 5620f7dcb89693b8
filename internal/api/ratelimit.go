package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/equityrank/pkg/config"
	"github.com/wonny/equityrank/pkg/logger"
	"github.com/wonny/equityrank/pkg/redis"
)

// RateLimit throttles /api requests.
// local caps this process; shared (optional) caps each client across replicas.
type RateLimit struct {
	local     *rate.Limiter
	shared    *redis.RateLimiter
	perSecond float64
}

// NewRateLimit creates a limiter from API config. shared may be nil.
func NewRateLimit(cfg config.APIConfig, shared *redis.RateLimiter) *RateLimit {
	if cfg.RateLimit <= 0 {
		return nil
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	return &RateLimit{
		local:     rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		shared:    shared,
		perSecond: cfg.RateLimit,
	}
}

// Middleware rejects requests over the limit with 429
func (l *RateLimit) Middleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.local.Allow() {
				tooManyRequests(w, 1)
				return
			}

			if l.shared != nil {
				allowed, _, err := l.shared.Allow(r.Context(), redis.APIRateLimit(clientIP(r), l.perSecond))
				if err != nil {
					// Redis 장애 시 로컬 리밋만 적용
					log.WithError(err).Warn("Shared rate limit unavailable")
				} else if !allowed {
					tooManyRequests(w, 60)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func tooManyRequests(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "Rate limit exceeded",
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
