package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type userLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserLimiter throttles messages per user with a token bucket each
type UserLimiter struct {
	mu        sync.Mutex
	perSecond rate.Limit
	burst     int
	users     map[uuid.UUID]*userLimit
	lastSweep time.Time
	now       func() time.Time
}

// NewUserLimiter allows requestsPerMin per user with the given burst. A
// non-positive rate disables limiting.
func NewUserLimiter(requestsPerMin, burst int) *UserLimiter {
	limit := rate.Inf
	if requestsPerMin > 0 {
		limit = rate.Limit(float64(requestsPerMin) / 60)
	}
	if burst <= 0 {
		burst = 1
	}
	return &UserLimiter{
		perSecond: limit,
		burst:     burst,
		users:     make(map[uuid.UUID]*userLimit),
		now:       time.Now,
	}
}

// Allow reports whether the user may send another message now
func (l *UserLimiter) Allow(userID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	entry, ok := l.users[userID]
	if !ok {
		entry = &userLimit{limiter: rate.NewLimiter(l.perSecond, l.burst)}
		l.users[userID] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *UserLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < limiterIdleTTL {
		return
	}
	l.lastSweep = now
	for id, entry := range l.users {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.users, id)
		}
	}
}
