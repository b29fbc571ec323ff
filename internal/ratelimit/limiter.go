// Package ratelimit implements a fixed-window request counter keyed by
// caller identity.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count     int
	resetTime time.Time
}

// Policy is a named per-route limit configuration. Name scopes the counter
// so different routes sharing one Limiter do not share windows.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Key builds the counter identifier for a caller under this policy.
func (p Policy) Key(identifier string) string {
	if p.Name == "" {
		return identifier
	}
	return p.Name + ":" + identifier
}

// Result reports the outcome of a limiter check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

// Limiter tracks request counts per identifier over fixed windows.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func New() *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow checks and consumes one request for identifier under the given
// policy. A missing or elapsed window is (re)initialized with count 1.
func (l *Limiter) Allow(identifier string, policy Policy) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[identifier]

	if !ok || now.After(e.resetTime) {
		reset := now.Add(policy.Window)
		l.entries[identifier] = &entry{count: 1, resetTime: reset}
		return Result{Allowed: true, Remaining: policy.Limit - 1, ResetTime: reset}
	}

	if e.count >= policy.Limit {
		return Result{Allowed: false, Remaining: 0, ResetTime: e.resetTime}
	}

	e.count++
	return Result{Allowed: true, Remaining: policy.Limit - e.count, ResetTime: e.resetTime}
}

// Status reports the current window state without consuming a request.
func (l *Limiter) Status(identifier string, policy Policy) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[identifier]
	if !ok || now.After(e.resetTime) {
		return Result{Allowed: true, Remaining: policy.Limit, ResetTime: now.Add(policy.Window)}
	}

	remaining := policy.Limit - e.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: remaining > 0, Remaining: remaining, ResetTime: e.resetTime}
}

// Sweep deletes entries whose window has elapsed, bounding memory
// independent of traffic patterns. Returns the number of entries removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, e := range l.entries {
		if now.After(e.resetTime) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identifiers.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// ProcessJobs lets the limiter run its sweep on the jobs.Worker poll loop.
func (l *Limiter) ProcessJobs(ctx context.Context) error {
	l.Sweep()
	return nil
}
