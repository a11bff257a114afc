package poller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatch_EmitsEveryValueAndFinishes(t *testing.T) {
	s := &script{steps: []string{"pending", "pending", "done"}}
	p := New(s.poll, isDone, Config{Interval: 0, Timeout: time.Minute})

	w := p.Watch(context.Background())

	final, timedOut, err := w.Wait(context.Background())
	require.NoError(t, err)
	require.False(t, timedOut)
	require.Equal(t, "done", final)
	require.Equal(t, 3, s.count())

	// All three values were emitted, in order, before the session ended.
	var got []string
	for {
		select {
		case v := <-w.Updates():
			got = append(got, v)
			continue
		default:
		}
		break
	}
	require.Equal(t, []string{"pending", "pending", "done"}, got)
}

func TestWatch_DoneClosesOnce(t *testing.T) {
	s := &script{steps: []string{"done"}}
	p := New(s.poll, isDone, Config{Interval: 0, Timeout: time.Minute})

	w := p.Watch(context.Background())

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("Done was not closed")
	}

	// A second receive succeeds immediately on a closed channel.
	select {
	case <-w.Done():
	default:
		t.Fatal("Done is not closed")
	}
}

func TestWatch_TimeoutYieldsLastValue(t *testing.T) {
	s := &script{steps: []string{"pending"}}
	p := New(s.poll, isDone, Config{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond})

	w := p.Watch(context.Background())

	final, timedOut, err := w.Wait(context.Background())
	require.NoError(t, err)
	require.True(t, timedOut)
	require.Equal(t, "pending", final)
}

func TestWatch_CancelStopsPolling(t *testing.T) {
	s := &script{steps: []string{"pending"}}
	p := New(s.poll, isDone, Config{Interval: 5 * time.Millisecond, Timeout: time.Minute})

	w := p.Watch(context.Background())

	// Let at least one poll land, then cancel.
	select {
	case <-w.Updates():
	case <-time.After(time.Second):
		t.Fatal("no update arrived")
	}
	w.Cancel()
	w.Cancel() // idempotent

	_, _, err := w.Wait(context.Background())
	require.ErrorIs(t, err, context.Canceled)

	calls := s.count()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, calls, s.count(), "polling must stop after Cancel")
}

func TestWatch_CallerWaitTimeoutCancelsSession(t *testing.T) {
	s := &script{steps: []string{"pending"}}
	p := New(s.poll, isDone, Config{Interval: 5 * time.Millisecond, Timeout: time.Minute})

	w := p.Watch(context.Background())

	waitCtx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, _, err := w.Wait(waitCtx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// Wait returned only after the polling goroutine wound down.
	select {
	case <-w.Done():
	default:
		t.Fatal("session still running after caller wait expired")
	}

	calls := s.count()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, calls, s.count(), "polling must stop after the caller gives up")
}

func TestWatch_SlowConsumerDoesNotBlockLoop(t *testing.T) {
	steps := make([]string, 0, 40)
	for i := 0; i < 39; i++ {
		steps = append(steps, "pending")
	}
	steps = append(steps, "done")
	s := &script{steps: steps}
	p := New(s.poll, isDone, Config{Interval: 0, Timeout: time.Minute})

	w := p.Watch(context.Background())

	// Nobody drains Updates; the loop must still reach the terminal value.
	final, timedOut, err := w.Wait(context.Background())
	require.NoError(t, err)
	require.False(t, timedOut)
	require.Equal(t, "done", final)
}
