// Package poller drives a long-running operation to a terminal state by
// repeated point-in-time reads.
//
// A Poller owns no transport; it is handed a poll function and a terminal
// predicate. Wait runs the loop on the calling goroutine. Watch runs it on a
// dedicated goroutine and exposes every observed value as a stream plus a
// single completion signal the initiating caller can await with its own
// timeout and cancel.
package poller
