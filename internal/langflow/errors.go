package langflow

import "fmt"

// ErrorKind classifies a relay failure so handlers can map every category to
// exactly one HTTP status. None of these are retried.
type ErrorKind int

const (
	// KindNoFlow: no flow ID resolvable from the request or configuration.
	KindNoFlow ErrorKind = iota
	// KindUnreachable: transport-level failure reaching Langflow.
	KindUnreachable
	// KindUpstreamStatus: Langflow answered with a non-200 status.
	KindUpstreamStatus
	// KindEmptyBody: Langflow answered 200 with an empty body.
	KindEmptyBody
	// KindMalformedBody: Langflow answered 200 with invalid JSON.
	KindMalformedBody
)

// Error carries the failure category plus whatever upstream detail exists.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status and Body are set for KindUpstreamStatus and surfaced verbatim.
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }
