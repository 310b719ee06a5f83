package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

// DeviceLimiter hands out one token bucket per device.
type DeviceLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewDeviceLimiter allows perMinute requests per device per minute with a
// burst of the same size. perMinute <= 0 disables limiting.
func NewDeviceLimiter(perMinute int) *DeviceLimiter {
	if perMinute <= 0 {
		return &DeviceLimiter{limit: rate.Inf}
	}
	return &DeviceLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether deviceID may make another request now.
func (l *DeviceLimiter) Allow(deviceID string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	lim, ok := l.limiters[deviceID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[deviceID] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// Middleware rejects requests over the device's budget with 429.
func (l *DeviceLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(DeviceID(r.Context())) {
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			utils.RespondError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *DeviceLimiter) retryAfterSeconds() int {
	secs := int(time.Duration(float64(time.Second) / float64(l.limit)).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}
