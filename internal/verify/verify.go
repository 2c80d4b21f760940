// Package verify implements read-after-write confirmation for library
// mutations.
//
// The remote API applies writes with a variable, sometimes multi-second
// propagation delay and occasionally drops a write outright, so a single
// read-after-write check produces false negatives. [Converge] trades latency
// for correctness: it polls the authoritative membership read under a
// progressive backoff until the observed state matches the desired state or
// the attempt budget is exhausted, re-issuing the write near the end of the
// budget in case the original was dropped.
package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spotlike/internal/shared"

	"github.com/charmbracelet/log"
)

const (
	// DefaultMaxAttempts bounds the verification loop.
	DefaultMaxAttempts = 8

	// DefaultBaseDelay is slept before the first read attempt.
	DefaultBaseDelay = 1000 * time.Millisecond

	// DefaultStepDelay is added to the sleep on each subsequent attempt.
	DefaultStepDelay = 500 * time.Millisecond
)

// Policy tunes the retry/backoff behavior of a verification run.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	StepDelay   time.Duration
}

// DefaultPolicy returns the standard verification policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		StepDelay:   DefaultStepDelay,
	}
}

// normalized fills in zero fields with defaults.
func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.StepDelay < 0 {
		p.StepDelay = DefaultStepDelay
	}
	return p
}

// Outcome describes whether and how a mutation was confirmed.
type Outcome struct {
	Converged bool
	Elapsed   time.Duration
	Attempts  int
}

// WriteFunc re-issues the state-changing call.
type WriteFunc func(ctx context.Context) error

// ReadFunc reports the current remote membership state.
type ReadFunc func(ctx context.Context) (bool, error)

// Converge polls read until it reports desired, or the attempt budget is
// exhausted.
//
// The write is expected to have been issued by the caller before Converge is
// invoked; the initial read is a pre-flight optimization, not a precondition.
// Transient read failures are consumed as failed attempts. Authentication
// failures surface immediately, since retrying without a valid session cannot
// converge. On the last two attempts the write is re-issued as a corrective
// action, its own failure logged and ignored. Backoff sleeps are cancellable
// via ctx.
func Converge(ctx context.Context, desired bool, write WriteFunc, read ReadFunc, policy Policy, logger *log.Logger) (Outcome, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	policy = policy.normalized()
	start := time.Now()

	current, err := read(ctx)
	switch {
	case err == nil && current == desired:
		logger.Debug("state already converged before verification attempts")
		return Outcome{Converged: true, Elapsed: time.Since(start), Attempts: 0}, nil
	case err != nil:
		if authErr := asAuthError(err); authErr != nil {
			return Outcome{Elapsed: time.Since(start)}, authErr
		}
		if ctx.Err() != nil {
			return Outcome{Elapsed: time.Since(start)}, ctx.Err()
		}
		logger.Warn("pre-flight membership check failed", "error", err)
	}

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		delay := policy.BaseDelay + time.Duration(attempt-1)*policy.StepDelay
		logger.Debug("waiting before verification attempt",
			"attempt", attempt, "max", policy.MaxAttempts, "delay", delay)

		if err := sleep(ctx, delay); err != nil {
			return Outcome{Elapsed: time.Since(start), Attempts: attempt - 1}, err
		}

		current, err := read(ctx)
		if err != nil {
			if authErr := asAuthError(err); authErr != nil {
				return Outcome{Elapsed: time.Since(start), Attempts: attempt}, authErr
			}
			if ctx.Err() != nil {
				return Outcome{Elapsed: time.Since(start), Attempts: attempt}, ctx.Err()
			}
			logger.Warn("membership check failed",
				"attempt", attempt, "max", policy.MaxAttempts, "error", err)
			continue
		}

		if current == desired {
			elapsed := time.Since(start)
			logger.Info("change verified", "attempts", attempt, "elapsed", elapsed)
			return Outcome{Converged: true, Elapsed: elapsed, Attempts: attempt}, nil
		}

		logger.Warn("state not yet converged",
			"attempt", attempt, "max", policy.MaxAttempts)

		// The write may have been dropped; resend it near the end of the
		// budget rather than aborting the loop.
		if attempt >= policy.MaxAttempts-1 {
			logger.Warn("re-issuing write", "attempt", attempt)
			if err := write(ctx); err != nil {
				if authErr := asAuthError(err); authErr != nil {
					return Outcome{Elapsed: time.Since(start), Attempts: attempt}, authErr
				}
				logger.Warn("corrective write failed", "error", err)
			}
		}
	}

	elapsed := time.Since(start)
	logger.Error("verification exhausted attempt budget",
		"attempts", policy.MaxAttempts, "elapsed", elapsed)
	return Outcome{Converged: false, Elapsed: elapsed, Attempts: policy.MaxAttempts}, nil
}

// asAuthError returns err when it is an authentication failure that must not
// be absorbed into the retry loop, nil otherwise.
func asAuthError(err error) error {
	for _, sentinel := range []error{
		shared.ErrNotAuthenticated,
		shared.ErrTokenExpired,
		shared.ErrAuthFailed,
	} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("verification aborted: %w", err)
		}
	}
	return nil
}

// sleep blocks for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
