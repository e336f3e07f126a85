package common

// CredentialStorageKey is the fixed key under which the client persists the
// bearer token in its durable credential store. Exactly one entry lives
// under this key; the session manager is its only writer.
const CredentialStorageKey = "auth_token"

// AuthorizationHeaderName and BearerPrefix describe how the bearer token is
// attached to outbound HTTP requests.
const (
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "
)
