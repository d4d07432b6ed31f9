package core

// load_limiter.go bounds how many tables may load from the data source at
// once.
//
// Every new session mounts its tables on first use, and each mount reads a
// whole dataset. The limiter uses a semaphore so a burst of sessions cannot
// open more database connections or S3 reads than configured. When all slots
// are taken, callers wait up to maxWait before failing with ErrLoadBusy.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLoadBusy is returned when all load slots are occupied and the wait
// timeout expires. Clients should retry after a short delay.
var ErrLoadBusy = errors.New("too many concurrent loads, please try again later")

// DefaultMaxConcurrentLoads is the default limit for parallel source loads.
const DefaultMaxConcurrentLoads = 4

// DefaultLoadWait is how long to wait for a slot before rejecting.
const DefaultLoadWait = 10 * time.Second

// LoadLimiter controls concurrent source loads using a semaphore.
type LoadLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewLoadLimiter creates a limiter that allows at most maxConcurrent loads.
// Requests that cannot acquire a slot within maxWait receive ErrLoadBusy.
func NewLoadLimiter(maxConcurrent int, maxWait time.Duration) *LoadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentLoads
	}
	if maxWait <= 0 {
		maxWait = DefaultLoadWait
	}

	return &LoadLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a load slot.
// The caller MUST call Release() when the load completes (use defer).
func (l *LoadLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		// Distinguish caller cancellation from our own timeout
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrLoadBusy
	}
}

// Release releases a previously acquired slot.
// Must be called exactly once for each successful Acquire.
func (l *LoadLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of loads in progress.
func (l *LoadLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the maximum allowed concurrent loads.
func (l *LoadLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// Available returns the number of free slots.
func (l *LoadLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// Wrap returns a RecordSource that holds a slot for the duration of each load.
func (l *LoadLimiter) Wrap(src RecordSource) RecordSource {
	return SourceFunc(func(ctx context.Context) ([]Record, error) {
		if err := l.Acquire(ctx); err != nil {
			return nil, err
		}
		defer l.Release()
		return src.LoadRecords(ctx)
	})
}

// WaitForDrain blocks until all active loads complete or ctx is cancelled.
func (l *LoadLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
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

// LoadLimiterStatus is a snapshot of the limiter's state.
type LoadLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *LoadLimiter) Status() LoadLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return LoadLimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
