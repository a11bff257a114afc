package poller

import (
	"context"
	"time"
)

// Config configures one polling session.
type Config struct {
	// Interval is the pause between consecutive polls. Zero polls again
	// immediately after each read.
	Interval time.Duration
	// Timeout bounds the whole session. Zero means no deadline; the session
	// runs until a terminal value, an error, or context cancellation.
	Timeout time.Duration
}

// Poller repeatedly invokes a poll function until the terminal predicate
// accepts a value. Each Poller owns its operation's polling lifecycle
// exclusively; polls are strictly sequential, a read is issued only after
// the previous result has been observed.
type Poller[T any] struct {
	poll func(ctx context.Context) (T, error)
	done func(T) bool
	cfg  Config
}

// New creates a poller over the given poll function and terminal predicate.
func New[T any](poll func(ctx context.Context) (T, error), done func(T) bool, cfg Config) *Poller[T] {
	return &Poller[T]{poll: poll, done: done, cfg: cfg}
}

// Wait polls until a terminal value, an error, or the configured timeout,
// parking between polls. It returns the last value observed; timedOut
// reports that the deadline elapsed before a terminal value was seen, which
// is not an error, the caller decides whether it is fatal.
func (p *Poller[T]) Wait(ctx context.Context) (last T, timedOut bool, err error) {
	return p.run(ctx, nil)
}

// run is the shared poll loop. When emit is non-nil every observed value is
// handed to it before the terminal check.
func (p *Poller[T]) run(ctx context.Context, emit func(T)) (T, bool, error) {
	var deadline time.Time
	if p.cfg.Timeout > 0 {
		deadline = time.Now().Add(p.cfg.Timeout)
	}

	var last T
	for {
		v, err := p.poll(ctx)
		if err != nil {
			return last, false, err
		}
		last = v
		if emit != nil {
			emit(v)
		}

		if p.done(v) {
			return v, false, nil
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return v, true, nil
		}

		timer := time.NewTimer(p.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return v, false, ctx.Err()
		case <-timer.C:
		}
	}
}
