// Package mailer abstracts outbound transactional email. The production
// deployment plugs in a real delivery backend; the default implementation
// only logs, which is enough for development and tests.
package mailer

import (
	"context"

	"github.com/dmitrijs2005/marketpulse/internal/logging"
)

// Mailer sends the two transactional emails the auth flows need.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
	SendPasswordResetEmail(ctx context.Context, email, token string) error
}

// LogMailer writes would-be emails to the structured log instead of
// delivering them.
type LogMailer struct {
	log logging.Logger
}

func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	m.log.Info(ctx, "verification email", "to", email, "token", token)
	return nil
}

func (m *LogMailer) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	m.log.Info(ctx, "password reset email", "to", email, "token", token)
	return nil
}
