package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"wholesale-be/internal/apperror"
	"wholesale-be/internal/logger"
	"wholesale-be/internal/metrics"
	"wholesale-be/internal/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Rate limit tiers
const (
	// login and checkout
	limitStrict = rate.Limit(2)
	burstStrict = 5

	idleTimeout = 3 * time.Minute
)

var errRateLimited = apperror.New(apperror.KindRateLimited, "too many requests")

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	general rate.Limit
	burst   int

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		general:  rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (l *RateLimiter) get(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r, b)}
		l.visitors[key] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

// Cleanup drops idle visitors every interval until ctx is done.
func (l *RateLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

func (l *RateLimiter) evictIdle() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > idleTimeout {
			delete(l.visitors, key)
			evicted++
		}
	}
	return evicted
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := l.resolveTier(r)

		var identity string
		if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
			identity = "user:" + userID
		} else {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			identity = "ip:" + ip
		}

		if !l.get(identity+":"+tier, limit, burst).Allow() {
			metrics.Default.Counter("rate_limited_total").Add(r.Context(), 1,
				metric.WithAttributes(attribute.String("tier", tier)))
			logger.FromCtx(r.Context()).Warn("rate limited",
				zap.String("identity", identity),
				zap.String("tier", tier),
			)
			w.Header().Set("Retry-After", "1")
			utils.WriteError(r.Context(), w, errRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) resolveTier(r *http.Request) (rate.Limit, int, string) {
	if r.Method == http.MethodPost && (r.URL.Path == "/auth/login" || r.URL.Path == "/outlet/orders") {
		return limitStrict, burstStrict, "strict"
	}
	return l.general, l.burst, "general"
}
