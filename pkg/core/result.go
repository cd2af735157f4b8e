package core

// Outcome is the tagged variant every operation resolves to.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeAuthMissing
	OutcomeRejected
	OutcomeTransport
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeAuthMissing:
		return "auth_missing"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransport:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of a session or notes operation.
//
// Messages is the caller-owned error list. It is empty at the start of every
// operation and only populated on failure (precondition or service rejection).
// Message carries the human-readable success text of login/register.
type Result struct {
	Op       string
	Outcome  Outcome
	Messages []string
	Message  string
	Status   int
	Change   Change
	Cause    error
}

// OK reports whether the operation was confirmed by the remote service.
func (r Result) OK() bool { return r.Outcome == OutcomeOK }

// Err maps the outcome to an error for callers that prefer errors.Is/As.
func (r Result) Err() error {
	switch r.Outcome {
	case OutcomeOK:
		return nil
	case OutcomeAuthMissing:
		return ErrAuthMissing
	case OutcomeRejected:
		return &RejectedError{Op: r.Op, Status: r.Status, Messages: r.Messages}
	case OutcomeTransport:
		return &TransportError{Op: r.Op, Err: r.Cause}
	default:
		return ErrUnknownResult
	}
}
