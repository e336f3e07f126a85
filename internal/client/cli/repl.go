package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	Login(ctx context.Context) error
	VerifyEmail(ctx context.Context) error
	ResendVerification(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Social(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Segments(ctx context.Context) error
	Behaviors(ctx context.Context) error
	Metrics(ctx context.Context) error
	Engagement(ctx context.Context) error
	Growth(ctx context.Context) error
	Trends(ctx context.Context) error
	MarketSize(ctx context.Context) error
	Competitors(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the MarketPulse CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - signup         — create an account (verification email follows)
//	  - login          — authenticate with email and password
//	  - verify         — confirm an account with an emailed token
//	  - resend         — request a fresh verification email
//	  - forgot         — request a password reset email
//	  - reset          — set a new password with an emailed token
//	  - social         — start a federated login in the browser
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the signed-in identity
//	  - profile        — show the business profile
//	  - editprofile    — update the business profile
//	  - segments       — list customer segments
//	  - behaviors      — list behavior counts for a date range
//	  - metrics        — show the customer metrics summary
//	  - engagement     — show the engagement timeline
//	  - growth         — show growth metrics and strategies
//	  - trends         — show market trends for an industry
//	  - marketsize     — show the market size estimate for an industry
//	  - competitors    — list competitors for an industry
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("mp> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, profile, editprofile, segments, behaviors, metrics, engagement, growth, trends, marketsize, competitors, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, verify, resend, forgot, reset, social, exit")
			}

		case "signup":
			_ = a.SignUp(ctx)

		case "login":
			_ = a.Login(ctx)

		case "verify":
			_ = a.VerifyEmail(ctx)

		case "resend":
			_ = a.ResendVerification(ctx)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "social":
			_ = a.Social(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "editprofile":
			_ = a.EditProfile(ctx)

		case "segments":
			_ = a.Segments(ctx)

		case "behaviors":
			_ = a.Behaviors(ctx)

		case "metrics":
			_ = a.Metrics(ctx)

		case "engagement":
			_ = a.Engagement(ctx)

		case "growth":
			_ = a.Growth(ctx)

		case "trends":
			_ = a.Trends(ctx)

		case "marketsize":
			_ = a.MarketSize(ctx)

		case "competitors":
			_ = a.Competitors(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
