package commands

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type throttleKey struct {
	UserID  string
	Command string
}

// throttle enforces a per-user, per-command rate limit. Limiters are created
// lazily and never evicted; the key space is bounded by active users times
// registered commands.
type throttle struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[throttleKey]*rate.Limiter
}

func newThrottle(window time.Duration, burst int) *throttle {
	return &throttle{
		limit:    rate.Every(window / time.Duration(burst)),
		burst:    burst,
		limiters: make(map[throttleKey]*rate.Limiter),
	}
}

// Allow reports whether the user may run the command now.
func (t *throttle) Allow(userID, command string) bool {
	t.mu.Lock()
	key := throttleKey{UserID: userID, Command: command}
	limiter, ok := t.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters[key] = limiter
	}
	t.mu.Unlock()

	return limiter.Allow()
}
