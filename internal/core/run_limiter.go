package core

// run_limiter.go bounds how many analysis runs execute at once.
//
// An upload run may buffer dozens of exports in memory, so the server gives
// each run a slot from a fixed pool. When every slot is taken a new run
// waits up to maxWait and then fails with ErrTooManyRuns. WaitForDrain lets
// shutdown wait for in-flight runs.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyRuns is returned when no run slot frees up within the wait time.
var ErrTooManyRuns = errors.New("too many concurrent analyses")

// DefaultMaxConcurrentRuns is used when the configured limit is not positive.
const DefaultMaxConcurrentRuns = 4

// DefaultRunWait is used when the configured wait is not positive.
const DefaultRunWait = 10 * time.Second

// drainPoll is how often WaitForDrain checks for active runs.
const drainPoll = 20 * time.Millisecond

// RunLimiter is a counting semaphore over analysis runs.
type RunLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.RWMutex
	active int
}

// NewRunLimiter allows at most maxConcurrent runs at a time.
func NewRunLimiter(maxConcurrent int, maxWait time.Duration) *RunLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRuns
	}
	if maxWait <= 0 {
		maxWait = DefaultRunWait
	}
	return &RunLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to the limiter's wait time.
// Every successful Acquire must be paired with Release.
func (l *RunLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyRuns
	}
}

// Release returns a slot.
func (l *RunLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// ActiveCount returns the number of runs holding a slot.
func (l *RunLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no run holds a slot or ctx is done.
func (l *RunLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunLimiterStatus is a snapshot of a RunLimiter.
type RunLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the limiter's current occupancy.
func (l *RunLimiter) Status() RunLimiterStatus {
	return RunLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
