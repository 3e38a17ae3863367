package practice

import (
	"fmt"
	"strings"
)

// Kind classifies integration failures.
type Kind int

const (
	KindUnknown Kind = iota
	// KindProviderUnavailable: network failure, timeout or unexpected status from the provider.
	KindProviderUnavailable
	// KindProviderAuthRejected: the provider rejected our credentials or token.
	KindProviderAuthRejected
	// KindIntegrationUnavailable: no client token could be obtained.
	KindIntegrationUnavailable
	KindUnknownUser
	KindInvalidIdentifier
)

func (k Kind) String() string {
	switch k {
	case KindProviderUnavailable:
		return "provider unavailable"
	case KindProviderAuthRejected:
		return "provider rejected credentials"
	case KindIntegrationUnavailable:
		return "siyavula integration unavailable"
	case KindUnknownUser:
		return "unknown user"
	case KindInvalidIdentifier:
		return "invalid identifier"
	default:
		return "unknown error"
	}
}

// Error is the error returned by the practice layer and its providers.
type Error struct {
	Kind       Kind
	Op         string // e.g. "get-token", "create-account"
	StatusCode int    // provider HTTP status, when there was one
	Err        error
}

// sentinels for errors.Is
var (
	ErrProviderUnavailable    = &Error{Kind: KindProviderUnavailable}
	ErrProviderAuthRejected   = &Error{Kind: KindProviderAuthRejected}
	ErrIntegrationUnavailable = &Error{Kind: KindIntegrationUnavailable}
	ErrUnknownUser            = &Error{Kind: KindUnknownUser}
	ErrInvalidIdentifier      = &Error{Kind: KindInvalidIdentifier}
)

func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
