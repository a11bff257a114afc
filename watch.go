package mailgate

import (
	"context"
	"errors"

	"github.com/mailgate/client-go/internal/poller"
)

// SendWatcher is a cancellable subscription to a send operation being polled
// on a dedicated goroutine. Every snapshot is delivered on Snapshots as it is
// observed; the session ends with exactly one final outcome readable through
// Wait.
type SendWatcher struct {
	watch *poller.Watch[*SendSnapshot]
}

// Watch starts polling the operation on its own goroutine and returns the
// subscription. The polling goroutine is released on every exit path:
// terminal snapshot, poll error, wait timeout, and cancellation.
//
// Example:
//
//	watcher := op.Watch(ctx)
//	go func() {
//	    for {
//	        select {
//	        case <-watcher.Done():
//	            return
//	        case snap := <-watcher.Snapshots():
//	            fmt.Println("status:", snap.Status)
//	        }
//	    }
//	}()
//
//	final, err := watcher.Wait(ctx)
func (op *SendOperation) Watch(ctx context.Context, opts ...WaitOption) *SendWatcher {
	cfg := newWaitConfig(opts)

	p := poller.New(op.Poll, (*SendSnapshot).Terminal, poller.Config{
		Interval: cfg.pollInterval,
		Timeout:  cfg.timeout,
	})

	return &SendWatcher{watch: p.Watch(ctx)}
}

// Snapshots returns the stream of observed snapshots. The channel is never
// closed; select on Done to detect the end of the session.
func (w *SendWatcher) Snapshots() <-chan *SendSnapshot {
	return w.watch.Updates()
}

// Done is closed exactly once, when polling has finished for any reason.
func (w *SendWatcher) Done() <-chan struct{} {
	return w.watch.Done()
}

// Cancel stops the polling session; no further status reads are issued.
// Cancel is idempotent.
func (w *SendWatcher) Cancel() {
	w.watch.Cancel()
}

// Wait blocks until polling finishes or ctx expires. On ctx expiry the
// session is cancelled before returning, so the polling goroutine never
// outlives the call. A session that ran out its own wait timeout yields the
// last snapshot with TimedOut set and a nil error, mirroring
// SendOperation.Wait. A session ended by Cancel yields ErrWatcherCancelled.
func (w *SendWatcher) Wait(ctx context.Context) (*SendSnapshot, error) {
	snap, timedOut, err := w.watch.Wait(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			return nil, ErrWatcherCancelled
		}
		return nil, err
	}
	if timedOut {
		out := *snap
		out.TimedOut = true
		return &out, nil
	}
	return snap, nil
}
