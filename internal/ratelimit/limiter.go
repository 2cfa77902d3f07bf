// Package ratelimit throttles callers with a fixed-window counter per key.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// Limiter counts calls per key inside fixed windows aligned to the window
// size. A key's counter resets when its window elapses; Sweep drops windows
// that can no longer be hit so the map stays bounded by active callers.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	size    time.Duration
	windows map[string]*window
	timeNow func() time.Time
}

// New returns a limiter allowing limit calls per key within each window.
// A non-positive limit disables throttling.
func New(limit int, size time.Duration) *Limiter {
	if size <= 0 {
		size = time.Minute
	}
	return &Limiter{
		limit:   limit,
		size:    size,
		windows: make(map[string]*window),
		timeNow: time.Now,
	}
}

func (l *Limiter) Allow(key string) bool {
	return l.AllowN(key, l.limit)
}

// AllowN increments key's counter and reports whether it stayed within limit.
// Denied calls are not counted.
func (l *Limiter) AllowN(key string, limit int) bool {
	if limit <= 0 {
		return true
	}

	start := l.timeNow().Truncate(l.size)

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !w.start.Equal(start) {
		w = &window{start: start}
		l.windows[key] = w
	}
	if w.count >= limit {
		return false
	}
	w.count++
	return true
}

// Sweep removes expired windows and returns how many were dropped.
func (l *Limiter) Sweep() int {
	now := l.timeNow()

	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for key, w := range l.windows {
		if !now.Before(w.start.Add(l.size)) {
			delete(l.windows, key)
			dropped++
		}
	}
	return dropped
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Run sweeps once per window until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.size)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
