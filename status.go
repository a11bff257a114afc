package mailgate

import "fmt"

// lifecycle is the internal tagged state of a send operation. Both public
// status vocabularies are projections of it, so their terminal/non-terminal
// classifications cannot drift apart.
type lifecycle uint8

const (
	lifecycleUnknown lifecycle = iota
	lifecycleNotStarted
	lifecycleRunning
	lifecycleSucceeded
	lifecycleFailed
	lifecycleCanceled
)

// terminal reports whether no further transition can occur from this state.
func (l lifecycle) terminal() bool {
	switch l {
	case lifecycleSucceeded, lifecycleFailed, lifecycleCanceled:
		return true
	default:
		return false
	}
}

// OperationStatus is the provider-agnostic long-running-operation vocabulary.
type OperationStatus string

const (
	OperationNotStarted OperationStatus = "NotStarted"
	OperationInProgress OperationStatus = "InProgress"
	OperationSucceeded  OperationStatus = "Succeeded"
	OperationFailed     OperationStatus = "Failed"
	OperationCanceled   OperationStatus = "Canceled"
)

// SendStatus is the mail-send-specific vocabulary. It names the same
// lifecycle positions as OperationStatus; only the in-flight identifier
// differs (Running vs InProgress).
type SendStatus string

const (
	SendNotStarted SendStatus = "NotStarted"
	SendRunning    SendStatus = "Running"
	SendSucceeded  SendStatus = "Succeeded"
	SendFailed     SendStatus = "Failed"
	SendCanceled   SendStatus = "Canceled"
)

// operationStatus renders the lifecycle in the operation vocabulary.
func (l lifecycle) operationStatus() OperationStatus {
	switch l {
	case lifecycleNotStarted:
		return OperationNotStarted
	case lifecycleRunning:
		return OperationInProgress
	case lifecycleSucceeded:
		return OperationSucceeded
	case lifecycleFailed:
		return OperationFailed
	case lifecycleCanceled:
		return OperationCanceled
	default:
		return ""
	}
}

// sendStatus renders the lifecycle in the send vocabulary.
func (l lifecycle) sendStatus() SendStatus {
	switch l {
	case lifecycleNotStarted:
		return SendNotStarted
	case lifecycleRunning:
		return SendRunning
	case lifecycleSucceeded:
		return SendSucceeded
	case lifecycleFailed:
		return SendFailed
	case lifecycleCanceled:
		return SendCanceled
	default:
		return ""
	}
}

// parseOperationStatus maps a wire operation status onto the lifecycle.
func parseOperationStatus(s string) (lifecycle, error) {
	switch OperationStatus(s) {
	case OperationNotStarted:
		return lifecycleNotStarted, nil
	case OperationInProgress:
		return lifecycleRunning, nil
	case OperationSucceeded:
		return lifecycleSucceeded, nil
	case OperationFailed:
		return lifecycleFailed, nil
	case OperationCanceled:
		return lifecycleCanceled, nil
	default:
		return lifecycleUnknown, fmt.Errorf("unknown operation status %q", s)
	}
}

// parseSendStatus maps a wire send status onto the lifecycle.
func parseSendStatus(s string) (lifecycle, error) {
	switch SendStatus(s) {
	case SendNotStarted:
		return lifecycleNotStarted, nil
	case SendRunning:
		return lifecycleRunning, nil
	case SendSucceeded:
		return lifecycleSucceeded, nil
	case SendFailed:
		return lifecycleFailed, nil
	case SendCanceled:
		return lifecycleCanceled, nil
	default:
		return lifecycleUnknown, fmt.Errorf("unknown send status %q", s)
	}
}

// IsTerminal reports whether the status is terminal.
func (s OperationStatus) IsTerminal() bool {
	l, err := parseOperationStatus(string(s))
	if err != nil {
		return false
	}
	return l.terminal()
}

// IsTerminal reports whether the status is terminal.
func (s SendStatus) IsTerminal() bool {
	l, err := parseSendStatus(string(s))
	if err != nil {
		return false
	}
	return l.terminal()
}

// reconcile parses both wire vocabularies for one poll read and verifies they
// name the same lifecycle position. The send status may be absent (empty)
// before provider work has begun. A disagreement is a provider contract
// violation and is surfaced, never silently reconciled.
func reconcile(operationID, opStatus, sendStatus string) (lifecycle, error) {
	l, err := parseOperationStatus(opStatus)
	if err != nil {
		return lifecycleUnknown, &InconsistentStatusError{
			OperationID: operationID,
			Detail:      err.Error(),
		}
	}

	if sendStatus == "" {
		return l, nil
	}

	dl, err := parseSendStatus(sendStatus)
	if err != nil {
		return lifecycleUnknown, &InconsistentStatusError{
			OperationID: operationID,
			Detail:      err.Error(),
		}
	}

	if dl != l {
		return lifecycleUnknown, &InconsistentStatusError{
			OperationID: operationID,
			Detail:      fmt.Sprintf("operation status %q and send status %q disagree", opStatus, sendStatus),
		}
	}

	return l, nil
}
