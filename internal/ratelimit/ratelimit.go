// Package ratelimit throttles quest applications per user per quest.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	// DefaultApplications is how many applications one user may send to one
	// quest per window.
	DefaultApplications = 3
	// DefaultWindow is the refill window.
	DefaultWindow = time.Hour

	maxTrackedKeys = 4096
)

// Limiter throttles (user, quest) pairs. Each pair gets a token bucket that
// starts full; idle pairs are evicted after a full window, which resets them.
type Limiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// New builds a limiter allowing burst applications per window per pair.
func New(burst int, window time.Duration) *Limiter {
	return &Limiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxTrackedKeys, nil, window),
		limit:    rate.Every(window / time.Duration(burst)),
		burst:    burst,
	}
}

// NewApplicationLimiter builds a limiter with the board's standing policy.
func NewApplicationLimiter() *Limiter {
	return New(DefaultApplications, DefaultWindow)
}

// Allow reports whether the user may apply to the quest now and consumes a
// token if so.
func (l *Limiter) Allow(userID, questID string) bool {
	return l.get(userID + ":" + questID).Allow()
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rl, ok := l.limiters.Get(key); ok {
		return rl
	}
	rl := rate.NewLimiter(l.limit, l.burst)
	l.limiters.Add(key, rl)
	return rl
}
