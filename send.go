package mailgate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mailgate/client-go/internal/poller"
)

// SendSnapshot is one point-in-time read of a send operation. Snapshots are
// never mutated; each poll produces a fresh one.
type SendSnapshot struct {
	// OperationID is the provider-issued handle of the operation.
	OperationID string
	// Status is the operation-vocabulary view of the lifecycle.
	Status OperationStatus
	// SendStatus is the send-vocabulary view. It is empty until the service
	// has begun work on the message.
	SendStatus SendStatus
	// ErrorCode and ErrorMessage carry the provider's error detail. They are
	// populated only when the terminal outcome is a failure.
	ErrorCode    string
	ErrorMessage string
	// TimedOut marks a snapshot returned by Wait after its deadline elapsed
	// without a terminal state. The operation may still be progressing
	// server-side; the caller decides whether this is fatal.
	TimedOut bool
}

// Terminal reports whether no further transition can occur.
func (s *SendSnapshot) Terminal() bool {
	return s.Status.IsTerminal()
}

// Succeeded reports a terminal successful outcome.
func (s *SendSnapshot) Succeeded() bool {
	return s.Status == OperationSucceeded
}

// Failed reports a terminal failed or canceled outcome.
func (s *SendSnapshot) Failed() bool {
	return s.Status == OperationFailed || s.Status == OperationCanceled
}

// SendOperation tracks one in-flight send. It owns its handle's polling
// lifecycle exclusively; do not share an operation between pollers.
type SendOperation struct {
	client *Client
	id     string

	mu           sync.Mutex
	sawTerminal  bool
	lastTerminal lifecycle
}

// Send validates the message and submits it to the service, returning the
// handle of the started operation. Validation failures return a
// *ValidationError before any network call. A synchronous rejection by the
// service returns a *SubmissionError with the provider's classification.
func (c *Client) Send(ctx context.Context, msg *Message) (*SendOperation, error) {
	if msg == nil {
		return nil, &ValidationError{Fields: []string{"message"}}
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.apiClient.BeginSend(ctx, msg.toAPI())
	if err != nil {
		err = wrapError(err)
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, &SubmissionError{
				StatusCode: apiErr.StatusCode,
				Code:       apiErr.Code,
				Message:    apiErr.Message,
				Err:        apiErr,
			}
		}
		return nil, err
	}

	return &SendOperation{client: c, id: resp.ID}, nil
}

// ID returns the provider-issued operation handle.
func (op *SendOperation) ID() string {
	return op.id
}

// Poll performs exactly one status read and returns a fresh snapshot. It
// never waits for completion. A read that contradicts an earlier one, a
// terminal state moving back to a non-terminal one, raises
// *InconsistentStatusError instead of being absorbed.
func (op *SendOperation) Poll(ctx context.Context) (*SendSnapshot, error) {
	res, err := op.client.apiClient.GetSendResult(ctx, op.id)
	if err != nil {
		return nil, wrapError(err)
	}

	l, err := reconcile(op.id, res.Status, res.SendStatus)
	if err != nil {
		return nil, err
	}

	op.mu.Lock()
	if op.sawTerminal && !l.terminal() {
		prev := op.lastTerminal
		op.mu.Unlock()
		return nil, &InconsistentStatusError{
			OperationID: op.id,
			Detail: fmt.Sprintf("terminal status %q regressed to %q",
				prev.operationStatus(), l.operationStatus()),
		}
	}
	if l.terminal() {
		op.sawTerminal = true
		op.lastTerminal = l
	}
	op.mu.Unlock()

	snap := &SendSnapshot{
		OperationID: op.id,
		Status:      l.operationStatus(),
	}
	if res.SendStatus != "" {
		snap.SendStatus = l.sendStatus()
	}
	if res.Error != nil {
		snap.ErrorCode = res.Error.Code
		snap.ErrorMessage = res.Error.Message
	}
	return snap, nil
}

// Wait polls the operation until it reaches a terminal state or the wait
// timeout elapses, parking between reads. On timeout it returns the last
// snapshot with TimedOut set and a nil error; the operation is not failed by
// timing out, it may still complete server-side.
func (op *SendOperation) Wait(ctx context.Context, opts ...WaitOption) (*SendSnapshot, error) {
	cfg := newWaitConfig(opts)

	p := poller.New(op.Poll, (*SendSnapshot).Terminal, poller.Config{
		Interval: cfg.pollInterval,
		Timeout:  cfg.timeout,
	})

	snap, timedOut, err := p.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if timedOut {
		out := *snap
		out.TimedOut = true
		return &out, nil
	}
	return snap, nil
}
