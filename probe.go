package mailgate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ProbeOutcome classifies one probe submission.
type ProbeOutcome string

const (
	// ProbeAccepted means the service accepted the submission.
	ProbeAccepted ProbeOutcome = "accepted"
	// ProbeThrottled means the service answered 429.
	ProbeThrottled ProbeOutcome = "throttled"
	// ProbeError means the submission failed for any other reason.
	ProbeError ProbeOutcome = "error"
)

// ProbeResult records one submission of a probe burst. Results are immutable
// once recorded.
type ProbeResult struct {
	// Sequence is the 1-based position of the submission in the burst.
	Sequence int
	// Outcome classifies the submission.
	Outcome ProbeOutcome
	// Elapsed is the wall-clock duration of the submission.
	Elapsed time.Duration
	// OperationID is the handle of an accepted submission.
	OperationID string
	// StatusCode is the HTTP status of a failed submission, when known.
	StatusCode int
	// Err is the error of a failed submission.
	Err error
}

// ProbeReport aggregates a whole probe burst.
type ProbeReport struct {
	// Results holds one entry per issued submission, in sequence order.
	Results []ProbeResult
	// Accepted counts submissions the service accepted.
	Accepted int
	// Failed counts submissions that errored, throttled included.
	Failed int
	// ThrottledAt is the sequence number of the first 429, 0 when the burst
	// completed without throttling.
	ThrottledAt int
	// Throttle is the throttling error of that submission, headers included.
	Throttle *ThrottledError
	// Elapsed is the wall-clock duration of the whole burst.
	Elapsed time.Duration
}

// Throttled reports whether the burst hit the rate ceiling.
func (r *ProbeReport) Throttled() bool {
	return r.ThrottledAt > 0
}

// RateLimitProbe drives a burst of independent submissions to surface the
// service's request-rate ceiling. Submissions are strictly sequential: the
// property under observation, which ordinal call first hits the limit, is
// only meaningful under an ordered request stream.
//
// The client must be built with WithoutRetries; any automatic retry or
// backoff would corrupt the measurement of where the limit sits.
type RateLimitProbe struct {
	client    *Client
	burstSize int
	onResult  func(ProbeResult)
}

// NewRateLimitProbe creates a probe over the given client.
func NewRateLimitProbe(client *Client, opts ...ProbeOption) *RateLimitProbe {
	cfg := &probeConfig{
		burstSize: defaultBurstSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &RateLimitProbe{
		client:    client,
		burstSize: cfg.burstSize,
		onResult:  cfg.onResult,
	}
}

// Run submits the message burstSize times, stamping the sequence number into
// the subject, and records each outcome. The burst stops at the first 429;
// other errors are recorded and the burst continues. Completion is not
// polled; only the submission path is exercised.
func (p *RateLimitProbe) Run(ctx context.Context, msg *Message) (*ProbeReport, error) {
	if msg == nil {
		return nil, &ValidationError{Fields: []string{"message"}}
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	report := &ProbeReport{
		Results: make([]ProbeResult, 0, p.burstSize),
	}
	start := time.Now()

	for seq := 1; seq <= p.burstSize; seq++ {
		if err := ctx.Err(); err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}

		item := *msg
		item.Subject = fmt.Sprintf("%s #%d/%d", msg.Subject, seq, p.burstSize)

		itemStart := time.Now()
		op, err := p.client.Send(ctx, &item)
		result := ProbeResult{
			Sequence: seq,
			Elapsed:  time.Since(itemStart),
		}

		switch {
		case err == nil:
			result.Outcome = ProbeAccepted
			result.OperationID = op.ID()
			report.Accepted++

		default:
			result.Err = err
			report.Failed++

			var thr *ThrottledError
			if errors.As(err, &thr) {
				result.Outcome = ProbeThrottled
				result.StatusCode = thr.StatusCode
				report.ThrottledAt = seq
				report.Throttle = thr
			} else {
				result.Outcome = ProbeError
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					result.StatusCode = apiErr.StatusCode
				}
				var subErr *SubmissionError
				if errors.As(err, &subErr) {
					result.StatusCode = subErr.StatusCode
				}
			}
		}

		report.Results = append(report.Results, result)
		if p.onResult != nil {
			p.onResult(result)
		}

		if result.Outcome == ProbeThrottled {
			break
		}
	}

	report.Elapsed = time.Since(start)
	return report, nil
}
