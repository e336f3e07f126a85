// Package session owns the client's authentication state: who is logged in,
// the persisted bearer token, and the login/signup/verification/password
// flows. The Manager is the single source of truth for identity and the only
// component permitted to write the credential store.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/marketpulse/internal/client/api"
	"github.com/dmitrijs2005/marketpulse/internal/client/models"
	"github.com/dmitrijs2005/marketpulse/internal/logging"
)

// CredentialStore is the durable home of the bearer token. The Manager is
// its sole writer; the transport layer only reads it.
type CredentialStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// State is a snapshot of the session. Loading is true only between
// construction and the end of Bootstrap; it never becomes true again.
// Err holds the message of the last failed operation, or "" when the last
// operation succeeded or the error was cleared.
type State struct {
	Identity *models.Identity
	Loading  bool
	Err      string
}

// Manager is the session state machine. Construct exactly one per
// application with New, call Bootstrap once, then invoke operations from
// any goroutine.
//
// Individual state mutations are atomic, but whole operations are not
// serialized against each other: two concurrent Login calls race, and the
// response that resolves last wins. Callers that need stricter ordering
// must serialize externally.
type Manager struct {
	client api.Client
	creds  CredentialStore
	log    logging.Logger

	mu       sync.Mutex
	identity *models.Identity
	loading  bool
	errMsg   string
}

// New builds a Manager in the Bootstrapping state. Callers must invoke
// Bootstrap once before relying on State().
func New(client api.Client, creds CredentialStore, log logging.Logger) *Manager {
	return &Manager{
		client:  client,
		creds:   creds,
		log:     log,
		loading: true,
	}
}

// State returns a snapshot of the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Identity: m.identity, Loading: m.loading, Err: m.errMsg}
}

// Identity returns the live identity, or nil when anonymous.
func (m *Manager) Identity() *models.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// IsAuthenticated reports whether a verified session is live.
func (m *Manager) IsAuthenticated() bool {
	return m.Identity() != nil
}

// Bootstrap converts a previously stored credential into a live identity.
// It runs once, right after construction. A missing credential leaves the
// session anonymous; a credential the backend no longer accepts (or any
// failure reaching it) is purged and the session stays anonymous, with no
// error surfaced: a stale token at startup is expected, not exceptional.
func (m *Manager) Bootstrap(ctx context.Context) {
	defer m.finishBootstrap()

	token, err := m.creds.Get(ctx)
	if err != nil {
		m.log.Warn(ctx, "credential store read failed", "error", err)
		return
	}
	if token == "" {
		return
	}

	identity, err := m.client.Me(ctx)
	if err != nil {
		if delErr := m.creds.Delete(ctx); delErr != nil {
			m.log.Warn(ctx, "failed to purge stale credential", "error", delErr)
		}
		return
	}

	m.mu.Lock()
	m.identity = identity
	m.mu.Unlock()
}

func (m *Manager) finishBootstrap() {
	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
}

// Login authenticates with email and password. Even when the backend
// accepts the credentials, an unverified account is rejected client-side
// with KindUnverifiedEmail and the returned token is discarded.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.ClearError()

	result, err := m.client.Login(ctx, email, password)
	if err != nil {
		return m.fail(KindLoginFailed, err, "Login failed")
	}

	if !result.User.EmailVerified {
		return m.fail(KindUnverifiedEmail, nil, "Please verify your email before logging in")
	}

	if err := m.creds.Set(ctx, result.Token); err != nil {
		return m.fail(KindLoginFailed, err, "Login failed")
	}

	m.mu.Lock()
	m.identity = &result.User
	m.mu.Unlock()
	return nil
}

// SignUp provisions an account and triggers a verification email. It does
// not authenticate: identity stays unset and no credential is stored. The
// returned message tells the user to check their inbox.
func (m *Manager) SignUp(ctx context.Context, data models.SignUpData) (string, error) {
	m.ClearError()

	message, err := m.client.SignUp(ctx, data)
	if err != nil {
		return "", m.fail(KindSignupFailed, err, "Sign up failed")
	}
	return message, nil
}

// VerifyEmail confirms an account using the token from the emailed link.
// Success does not log the user in; callers typically redirect to login.
func (m *Manager) VerifyEmail(ctx context.Context, token string) error {
	m.ClearError()

	if err := m.client.VerifyEmail(ctx, token); err != nil {
		return m.fail(KindEmailVerificationFailed, err, "Email verification failed")
	}
	return nil
}

// ResendVerification asks the backend to send a fresh verification email
// for the current (possibly unverified) server-side session.
func (m *Manager) ResendVerification(ctx context.Context) error {
	m.ClearError()

	if err := m.client.ResendVerification(ctx); err != nil {
		return m.fail(KindResendVerificationFailed, err, "Failed to resend verification email")
	}
	return nil
}

// RequestPasswordReset asks for a reset email. The backend answers
// uniformly whether or not the address exists, and the client does not
// branch on it.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	m.ClearError()

	if err := m.client.RequestPasswordReset(ctx, email); err != nil {
		return m.fail(KindPasswordResetRequestFailed, err, "Password reset request failed")
	}
	return nil
}

// ResetPassword sets a new password using the token from the reset email.
// Success does not authenticate; the caller must log in separately.
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	m.ClearError()

	if err := m.client.ResetPassword(ctx, token, newPassword); err != nil {
		return m.fail(KindPasswordResetFailed, err, "Password reset failed")
	}
	return nil
}

// Logout unconditionally clears the identity and deletes the stored
// credential. It never fails; logging out while anonymous is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.creds.Delete(ctx); err != nil {
		m.log.Warn(ctx, "failed to delete stored credential on logout", "error", err)
	}

	m.mu.Lock()
	m.identity = nil
	m.mu.Unlock()
}

// ClearError resets the error state. Safe to call at any time.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.errMsg = ""
	m.mu.Unlock()
}

// fail records the failure in the session state for passive display and
// returns a typed Error so the initiating caller can react. Transport
// failures override the suggested kind.
func (m *Manager) fail(kind Kind, cause error, fallback string) error {
	if errors.Is(cause, api.ErrUnavailable) {
		kind = KindTransportUnavailable
	}

	message := fallback
	if cause != nil && cause.Error() != "" {
		message = cause.Error()
	}

	m.mu.Lock()
	m.errMsg = message
	m.mu.Unlock()

	return &Error{Kind: kind, Message: message, cause: cause}
}
