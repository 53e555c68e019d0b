// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	WindowSize    time.Duration // time window for counting
	MaxRequests   int           // maximum requests per window
	CleanupPeriod time.Duration // how often stale entries are dropped
}

// DefaultChatConfig bounds how fast a single user can burn AI queries.
func DefaultChatConfig() *Config {
	return &Config{
		WindowSize:    time.Minute,
		MaxRequests:   20,
		CleanupPeriod: 10 * time.Minute,
	}
}

// DefaultAdminConfig bounds write traffic on the admin surfaces.
func DefaultAdminConfig() *Config {
	return &Config{
		WindowSize:    time.Minute,
		MaxRequests:   60,
		CleanupPeriod: 10 * time.Minute,
	}
}

type windowRecord struct {
	count      int
	windowFrom time.Time
}

// Status reports the outcome of an Allow check.
type Status struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// MemoryRateLimiter is a fixed-window in-memory limiter keyed by caller
// identity.
type MemoryRateLimiter struct {
	config  *Config
	windows map[string]*windowRecord
	mu      sync.Mutex
	stopCh  chan struct{}
}

func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	limiter := &MemoryRateLimiter{
		config:  config,
		windows: make(map[string]*windowRecord),
		stopCh:  make(chan struct{}),
	}
	go limiter.cleanupLoop()
	return limiter
}

// Allow counts one request for the identifier and reports whether it fits
// in the current window.
func (rl *MemoryRateLimiter) Allow(identifier string) *Status {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	record, exists := rl.windows[identifier]
	if !exists || now.Sub(record.windowFrom) > rl.config.WindowSize {
		rl.windows[identifier] = &windowRecord{count: 1, windowFrom: now}
		return &Status{
			Allowed:   true,
			Remaining: rl.config.MaxRequests - 1,
			ResetTime: now.Add(rl.config.WindowSize),
		}
	}

	record.count++
	reset := record.windowFrom.Add(rl.config.WindowSize)
	if record.count > rl.config.MaxRequests {
		return &Status{
			Allowed:    false,
			Remaining:  0,
			ResetTime:  reset,
			RetryAfter: time.Until(reset),
		}
	}
	return &Status{
		Allowed:   true,
		Remaining: rl.config.MaxRequests - record.count,
		ResetTime: reset,
	}
}

// UserKey builds the limiter identifier for an authenticated user.
func UserKey(tenantID, userID uint) string {
	return fmt.Sprintf("%d:%d", tenantID, userID)
}

func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for identifier, record := range rl.windows {
		if now.Sub(record.windowFrom) > rl.config.WindowSize {
			delete(rl.windows, identifier)
		}
	}
}

// Close stops the cleanup goroutine.
func (rl *MemoryRateLimiter) Close() {
	close(rl.stopCh)
}
