// Package cli provides the interactive MarketPulse command-line client.
//
// It wires configuration, the local credential store, the REST API client,
// the session manager, and an interactive REPL over the customer-intelligence
// dashboard data.
//
// Key features:
//   - Sign up / Login / Logout with email verification
//   - Password reset and verification-email flows
//   - Federated login bootstrap (Google, Facebook, LinkedIn, GitHub)
//   - Customer segments, behaviors, metrics and engagement views
//   - Growth strategy, market trend, market size and competitor views
//   - Business profile display and editing
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
