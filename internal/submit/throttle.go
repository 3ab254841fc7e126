package submit

import (
	"sync"
	"time"
)

// pruneAbove is the number of tracked clients after which expired entries are dropped.
const pruneAbove = 1024

// Throttle enforces a minimum interval between accepted submissions per client key.
type Throttle struct {
	window time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// NewThrottle creates a throttle with the given window.
func NewThrottle(window time.Duration) *Throttle {
	return &Throttle{
		window: window,
		last:   make(map[string]time.Time),
	}
}

// Window returns the minimum interval between submissions.
func (t *Throttle) Window() time.Duration {
	return t.window
}

// Reserve claims the window for key at now. ok is false when key already
// holds a claim younger than the window. Check and claim happen under one
// lock, so concurrent callers for the same key get at most one claim.
// release undoes the claim and restores the previous one, if any; it is a
// no-op once a newer claim replaced it.
func (t *Throttle) Reserve(key string, now time.Time) (release func(), ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, had := t.last[key]
	if had && now.Sub(prev) < t.window {
		return nil, false
	}
	t.last[key] = now
	t.prune(now)

	var once sync.Once
	release = func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if cur, ok := t.last[key]; !ok || !cur.Equal(now) {
				return
			}
			if had {
				t.last[key] = prev
			} else {
				delete(t.last, key)
			}
		})
	}
	return release, true
}

// prune drops expired entries once too many clients are tracked.
// Callers hold t.mu.
func (t *Throttle) prune(now time.Time) {
	if len(t.last) <= pruneAbove {
		return
	}
	for k, v := range t.last {
		if now.Sub(v) >= t.window {
			delete(t.last, k)
		}
	}
}
