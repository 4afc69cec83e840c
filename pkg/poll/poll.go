// Package poll provides a bounded "wait until ready" helper for remote
// resources that only expose their state through repeated status reads.
package poll

import (
	"context"
	"time"
)

type Status int

const (
	StatusReady Status = iota
	StatusTimedOut
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusTimedOut:
		return "timed_out"
	default:
		return "failed"
	}
}

type Result struct {
	Status   Status
	Attempts int
	Err      error
}

func (r Result) Ready() bool { return r.Status == StatusReady }

// Predicate reports whether the awaited condition holds. A returned error
// aborts the poll and surfaces as StatusFailed.
type Predicate func(ctx context.Context) (bool, error)

// Until checks pred up to maxAttempts times, sleeping interval between
// attempts. The first check runs immediately. Context cancellation aborts
// the wait and reports StatusFailed with the context error.
func Until(ctx context.Context, interval time.Duration, maxAttempts int, pred Predicate) Result {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ok, err := pred(ctx)
		if err != nil {
			return Result{Status: StatusFailed, Attempts: attempt, Err: err}
		}
		if ok {
			return Result{Status: StatusReady, Attempts: attempt}
		}

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return Result{Status: StatusFailed, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(interval):
		}
	}

	return Result{Status: StatusTimedOut, Attempts: maxAttempts}
}
