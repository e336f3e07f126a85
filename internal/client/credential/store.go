// Package credential persists the opaque bearer token the client holds
// between runs. Exactly one durable entry exists, under a fixed key; the
// session manager is the only component allowed to write it, while the
// transport layer reads it through the TokenSource contract.
package credential

import "context"

// Store is the durable home of the bearer token.
type Store interface {
	// Get returns the stored token, or "" if none is stored.
	Get(ctx context.Context) (string, error)
	// Set overwrites the stored token.
	Set(ctx context.Context, token string) error
	// Delete removes the stored token. Deleting an absent token is a no-op.
	Delete(ctx context.Context) error
}
