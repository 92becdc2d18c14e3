package api

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// WithRateLimit installs a token bucket limiter. A non-positive rate or burst
// disables rate limiting.
func WithRateLimit(ratePerSecond float64, burst int) RouterOption {
	return func(cfg *routerConfig) {
		if ratePerSecond <= 0 || burst <= 0 {
			cfg.limiter = nil
			return
		}
		cfg.limiter = newTokenBucketLimiter(ratePerSecond, burst)
	}
}

type rateLimiter interface {
	Allow() bool
}

type tokenBucket struct {
	limiter *rate.Limiter
}

func newTokenBucketLimiter(ratePerSecond float64, burst int) *tokenBucket {
	return &tokenBucket{limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
}

func (b *tokenBucket) Allow() bool {
	return b.limiter.Allow()
}

// retryAfter is the whole number of seconds until the next token, at least 1.
func (b *tokenBucket) retryAfter() int {
	r := b.limiter.Reserve()
	defer r.Cancel()
	secs := int(r.Delay().Seconds() + 0.999)
	if secs < 1 {
		return 1
	}
	return secs
}

func withRateLimit(limiter rateLimiter) middleware {
	if limiter == nil {
		return nil
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}
			if b, ok := limiter.(*tokenBucket); ok {
				w.Header().Set("Retry-After", strconv.Itoa(b.retryAfter()))
			}
			writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded, please retry shortly")
		})
	}
}
