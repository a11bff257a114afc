package poller

import (
	"context"
	"sync"
)

// Watch is a cancellable subscription to a polling session running on its
// own goroutine. Updates carries every observed value; the session ends with
// exactly one final outcome readable through Wait.
type Watch[T any] struct {
	updates chan T
	done    chan struct{}
	cancel  context.CancelFunc

	mu       sync.Mutex
	final    T
	timedOut bool
	err      error
}

// Watch starts the poll loop on a dedicated goroutine and returns the
// subscription. The goroutine and its timers are released on every exit
// path: terminal value, poll error, timeout, and cancellation.
func (p *Poller[T]) Watch(ctx context.Context) *Watch[T] {
	ctx, cancel := context.WithCancel(ctx)
	w := &Watch[T]{
		updates: make(chan T, 16),
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	go func() {
		defer close(w.done)
		defer cancel()

		final, timedOut, err := p.run(ctx, w.emit)
		w.mu.Lock()
		w.final = final
		w.timedOut = timedOut
		w.err = err
		w.mu.Unlock()
	}()

	return w
}

// emit delivers a value to the updates channel without blocking the poll
// loop. When the subscriber is not draining, older updates are dropped;
// the final outcome is always available through Wait.
func (w *Watch[T]) emit(v T) {
	select {
	case w.updates <- v:
	default:
	}
}

// Updates returns the stream of observed values. The channel is never
// closed; select on Done to detect the end of the session.
func (w *Watch[T]) Updates() <-chan T {
	return w.updates
}

// Done is closed exactly once, when the polling session has finished for
// any reason.
func (w *Watch[T]) Done() <-chan struct{} {
	return w.done
}

// Cancel stops the polling session. No further polls are issued after the
// in-flight one returns. Cancel is idempotent.
func (w *Watch[T]) Cancel() {
	w.cancel()
}

// Wait blocks until the session finishes or ctx expires, whichever comes
// first. On ctx expiry the session is cancelled and Wait waits for the
// polling goroutine to wind down before returning ctx's error, so no
// resources outlive the call.
func (w *Watch[T]) Wait(ctx context.Context) (T, bool, error) {
	select {
	case <-w.done:
	case <-ctx.Done():
		w.cancel()
		<-w.done
		var zero T
		return zero, false, ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.final, w.timedOut, w.err
}
