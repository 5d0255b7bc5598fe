package ratelimit

import (
	"sync"
	"time"
)

const CLEANUP_INTERVAL = 5 * time.Minute

type window struct {
	start time.Time
	count int
}

// Limiter is an in-memory fixed-window rate limiter keyed by client
// address. Counts reset when a key's window elapses; entries for idle
// keys are pruned by a background goroutine.
type Limiter struct {
	mu          sync.Mutex
	maxRequests int
	windowSize  time.Duration
	windows     map[string]*window
	stopCleanup chan struct{}
	stopped     bool
}

func NewLimiter(maxRequests int, windowSize time.Duration) *Limiter {
	limiter := &Limiter{
		maxRequests: maxRequests,
		windowSize:  windowSize,
		windows:     make(map[string]*window),
		stopCleanup: make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

// Allow reports whether a request from 'key' is admitted, counting it
// against the current window if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.windowSize {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}

	if w.count >= l.maxRequests {
		return false
	}

	w.count++
	return true
}

// RetryAfter returns the number of seconds until the current window for
// 'key' expires, for use in a Retry-After header.
func (l *Limiter) RetryAfter(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		return 0
	}

	remaining := l.windowSize - time.Since(w.start)
	if remaining < 0 {
		return 0
	}

	return int(remaining.Seconds()) + 1
}

// Stop terminates the background cleanup goroutine.
func (l *Limiter) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}

	l.stopped = true
	close(l.stopCleanup)
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(CLEANUP_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCleanup:
			return
		case <-ticker.C:
			l.mu.Lock()
			for key, w := range l.windows {
				if time.Since(w.start) >= l.windowSize {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
