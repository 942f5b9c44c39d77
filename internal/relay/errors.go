package relay

// Error codes surfaced to the requesting connection. All relay failures
// are local and non-fatal; the worst outcome is an ignored event.
const (
	ErrCodeForbidden     = "forbidden"
	ErrCodeCallNotFound  = "call_not_found"
	ErrCodeAlreadyInCall = "already_in_call"
	ErrCodeCallLimit     = "call_limit_reached"
	ErrCodeBadRequest    = "bad_request"
)

// RelayError wraps a code and human-readable message.
type RelayError struct {
	Code    string
	Message string
}

func (e *RelayError) Error() string {
	return e.Message
}

func relayError(code, msg string) *RelayError {
	return &RelayError{Code: code, Message: msg}
}
