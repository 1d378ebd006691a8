// Package ratelimit throttles requests per client key with token buckets
// from golang.org/x/time/rate.
package ratelimit

import (
	"errors"
	"hash/fnv"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/alanquantic/voltdrive/pkg/clientip"
)

// ErrInvalidConfig indicates that the provided configuration is invalid.
var ErrInvalidConfig = errors.New("invalid rate limit configuration")

// maxKeyLength caps stored keys; longer keys are hashed.
const maxKeyLength = 64

// Config describes the bucket handed to each key.
// A zero PerMinute disables limiting.
type Config struct {
	PerMinute int           `env:"QUOTE_RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	Burst     int           `env:"QUOTE_RATE_LIMIT_BURST" envDefault:"5"`
	IdleTTL   time.Duration `env:"QUOTE_RATE_LIMIT_IDLE_TTL" envDefault:"10m"`
}

// KeyFunc extracts a rate limit key from the request.
type KeyFunc func(r *http.Request) string

// ByClientIP keys requests by the resolved client address.
func ByClientIP(r *http.Request) string {
	return clientip.GetIP(r)
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per key and forgets idle keys.
type Limiter struct {
	cfg     Config
	limit   rate.Limit
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*entry
	sweptAt time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New validates cfg and returns a Limiter.
func New(cfg Config, opts ...Option) (*Limiter, error) {
	if cfg.PerMinute < 0 || cfg.Burst < 0 {
		return nil, ErrInvalidConfig
	}
	if cfg.PerMinute > 0 && cfg.Burst == 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}

	l := &Limiter{
		cfg:     cfg,
		limit:   rate.Limit(float64(cfg.PerMinute) / 60.0),
		now:     time.Now,
		buckets: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.sweptAt = l.now()
	return l, nil
}

// Enabled reports whether the limiter rejects anything at all.
func (l *Limiter) Enabled() bool {
	return l != nil && l.cfg.PerMinute > 0
}

// Allow consumes one token for key. It returns false and the suggested wait
// when the bucket is empty.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if !l.Enabled() {
		return true, 0
	}
	key = normalizeKey(key)
	now := l.now()

	l.mu.Lock()
	l.sweep(now)
	e, ok := l.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.cfg.Burst)}
		l.buckets[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops buckets idle longer than IdleTTL. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.sweptAt) < l.cfg.IdleTTL {
		return
	}
	for k, e := range l.buckets {
		if now.Sub(e.lastSeen) >= l.cfg.IdleTTL {
			delete(l.buckets, k)
		}
	}
	l.sweptAt = now
}

func normalizeKey(key string) string {
	if len(key) <= maxKeyLength {
		return key
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return strconv.FormatUint(h.Sum64(), 36)
}

// Middleware rejects requests over the limit. onLimited writes the response;
// nil falls back to a plain 429 "Too Many Requests".
func Middleware(l *Limiter, keyFunc KeyFunc, onLimited http.HandlerFunc) func(http.Handler) http.Handler {
	if keyFunc == nil {
		keyFunc = ByClientIP
	}
	if onLimited == nil {
		onLimited = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		}
	}
	return func(next http.Handler) http.Handler {
		if !l.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := l.Allow(keyFunc(r))
			if !ok {
				secs := int(wait.Round(time.Second).Seconds())
				w.Header().Set("Retry-After", strconv.Itoa(max(1, secs)))
				onLimited(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
