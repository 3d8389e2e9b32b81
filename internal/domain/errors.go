package domain

// ErrorKind tags the closed sum of domain error variants. The kind alone
// drives retry and breaker behaviour (§7); the payload fields are for
// diagnostics and telemetry.
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindPermissionRequired
	ErrorKindUserActionRequired
	ErrorKindTransport
	ErrorKindProtocol
	ErrorKindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindPermissionRequired:
		return "PermissionRequired"
	case ErrorKindUserActionRequired:
		return "UserActionRequired"
	case ErrorKindTransport:
		return "Transport"
	case ErrorKindProtocol:
		return "Protocol"
	case ErrorKindUnexpected:
		return "Unexpected"
	default:
		return "Unknown"
	}
}

// DomainError is the engine's closed error taxonomy (§3). It is a value
// type so it can be embedded in events, aggregates, and snapshots without
// losing identity the way a wrapped `error` would.
type DomainError struct {
	Kind    ErrorKind
	Message string
	// Permission names the OS/platform permission missing, set only for
	// ErrorKindPermissionRequired.
	Permission string
	// Action names the user action required, set only for
	// ErrorKindUserActionRequired.
	Action string
	// Code is the transport-level status code, set only for
	// ErrorKindTransport when the transport reported one.
	Code *int
}

func PermissionRequiredError(permission string) DomainError {
	return DomainError{Kind: ErrorKindPermissionRequired, Permission: permission, Message: "permission required: " + permission}
}

func UserActionRequiredError(action string) DomainError {
	return DomainError{Kind: ErrorKindUserActionRequired, Action: action, Message: "user action required: " + action}
}

func TransportError(message string, code *int) DomainError {
	return DomainError{Kind: ErrorKindTransport, Message: message, Code: code}
}

func ProtocolError(message string) DomainError {
	return DomainError{Kind: ErrorKindProtocol, Message: message}
}

func UnexpectedError(message string) DomainError {
	return DomainError{Kind: ErrorKindUnexpected, Message: message}
}

func (e DomainError) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Retryable reports whether this error kind should ever reach a retry
// policy. PermissionRequired and UserActionRequired never retry; they
// surface as SyncFailed for a UI prompt instead (§7).
func (e DomainError) Retryable() bool {
	switch e.Kind {
	case ErrorKindTransport, ErrorKindUnexpected:
		return true
	default:
		return false
	}
}

// BreakerGated reports whether calls after this error should be throttled
// by a circuit breaker (§7).
func (e DomainError) BreakerGated() bool {
	switch e.Kind {
	case ErrorKindPermissionRequired, ErrorKindUserActionRequired:
		return false
	default:
		return true
	}
}
