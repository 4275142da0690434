package api

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Narasimha1997/ratelimiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var httpResponseTimeMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "",
	Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 10},
}, []string{"operation"})

func operation(r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

func loggingMiddleware(logger *zap.Logger) httpMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info("Handling request",
				zap.String("operation", operation(r)),
				zap.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
		})
	}
}

var errRateLimitExceeded = errors.New("rate limit exceeded")

// rateLimitMiddleware allows each remote host at most limit requests per window.
// Proposals are not gated on the approver set, so the propose route is wrapped
// with this to keep a single client from flooding the transaction log.
func rateLimitMiddleware(limit uint64, window time.Duration) httpMiddleware {
	limiter := ratelimiter.NewAttributeBasedLimiter(true)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !limiter.HasKey(key) {
				// a concurrent request may have created the key already
				_ = limiter.CreateNewKey(key, limit, window)
			}
			allowed, err := limiter.ShouldAllow(key, 1)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			if !allowed {
				writeError(w, http.StatusTooManyRequests, errRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := prometheus.NewTimer(httpResponseTimeMetric.WithLabelValues(operation(r)))
		defer t.ObserveDuration()
		next.ServeHTTP(w, r)
	})
}
