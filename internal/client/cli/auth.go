package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/marketpulse/internal/client/models"
	"github.com/dmitrijs2005/marketpulse/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and authenticates through the
// session manager. An account that exists but has not confirmed its email
// is rejected locally; the user is pointed at the "resend" command.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}

	if err := a.sessions.Login(ctx, email, password); err != nil {
		printlnFn(err.Error())
		if session.IsKind(err, session.KindUnverifiedEmail) {
			printlnFn("Use 'resend' to request a new verification email.")
		}
		return err
	}

	printlnFn("Logged in as", displayName(a.sessions.Identity()))
	return nil
}

// SignUp prompts for account details and creates the account. Signing up
// does not log the user in; the backend's confirmation message (check your
// inbox) is echoed instead.
func (a *App) SignUp(ctx context.Context) error {
	data := models.SignUpData{}

	var err error
	if data.Email, err = getSimpleText(a.reader, "Enter email", os.Stdout); err != nil {
		return err
	}
	if data.Password, err = getPassword(os.Stdout, "Enter password"); err != nil {
		return err
	}
	if data.Name, err = getSimpleText(a.reader, "Enter your name", os.Stdout); err != nil {
		return err
	}
	if data.CompanyName, err = getSimpleText(a.reader, "Enter company name", os.Stdout); err != nil {
		return err
	}
	if data.Industry, err = getSimpleText(a.reader, "Enter industry", os.Stdout); err != nil {
		return err
	}

	message, err := a.sessions.SignUp(ctx, data)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(message)
	return nil
}

// VerifyEmail prompts for the token from the verification email and
// confirms the account. Success still requires a regular login afterwards.
func (a *App) VerifyEmail(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter verification token", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.sessions.VerifyEmail(ctx, token); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Email verified. You can log in now.")
	return nil
}

// ResendVerification asks the backend for a fresh verification email.
func (a *App) ResendVerification(ctx context.Context) error {
	if err := a.sessions.ResendVerification(ctx); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Verification email sent.")
	return nil
}

// ForgotPassword requests a password reset email. The confirmation is the
// same whether or not the address has an account.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.sessions.RequestPasswordReset(ctx, email); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("If an account exists for that address, a reset email is on its way.")
	return nil
}

// ResetPassword sets a new password using the token from the reset email.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter new password")
	if err != nil {
		return err
	}

	if err := a.sessions.ResetPassword(ctx, token, password); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Password updated. Log in with your new password.")
	return nil
}

// Social starts a federated login: it prints the backend URL that begins
// the provider's OAuth flow. The flow finishes out of band; the session is
// picked up on the next start of the client.
func (a *App) Social(ctx context.Context) error {
	provider, err := getSimpleText(a.reader, "Enter provider (google, facebook, linkedin, github)", os.Stdout)
	if err != nil {
		return err
	}

	target, err := a.sessions.FederatedLoginURL(session.Provider(provider))
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Open this URL in your browser to continue:")
	printlnFn(target)
	printlnFn("After signing in, restart the client to pick up the session.")
	return nil
}

// Logout ends the session and removes the stored credential. It cannot fail.
func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}

// WhoAmI prints the signed-in identity.
func (a *App) WhoAmI(ctx context.Context) error {
	id := a.sessions.Identity()
	if id == nil {
		printlnFn("Not logged in.")
		return nil
	}

	printlnFn("Email:", id.Email)
	printlnFn("Name:", id.Name)
	printlnFn("Role:", id.Role)
	printlnFn("Company:", id.CompanyName)
	printlnFn("Industry:", id.Industry)
	return nil
}
