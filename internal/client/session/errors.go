package session

import "errors"

// Kind classifies a failed session operation. Kinds let callers branch on
// the outcome without string matching, so "verified-but-rejected" and
// "backend unreachable" are first-class results rather than opaque errors.
type Kind string

const (
	// KindTransportUnavailable means no response was received at all,
	// distinct from an application-level rejection.
	KindTransportUnavailable Kind = "transport_unavailable"

	// KindLoginFailed covers backend-rejected logins, including invalid
	// credentials.
	KindLoginFailed Kind = "login_failed"

	// KindUnverifiedEmail is the client-enforced gate: the backend accepted
	// the credentials and returned a token, but the account is unverified.
	// The token is discarded.
	KindUnverifiedEmail Kind = "unverified_email"

	KindSignupFailed               Kind = "signup_failed"
	KindEmailVerificationFailed    Kind = "email_verification_failed"
	KindResendVerificationFailed   Kind = "resend_verification_failed"
	KindPasswordResetRequestFailed Kind = "password_reset_request_failed"
	KindPasswordResetFailed        Kind = "password_reset_failed"
	KindFederatedLoginFailed       Kind = "federated_login_failed"
)

// Error is the typed failure returned by session operations. Message is the
// most specific human-readable text available: the backend's response
// message if present, otherwise the underlying error text, otherwise a
// per-operation fallback.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is a session Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
