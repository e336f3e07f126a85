// Package models defines the plain data structures exchanged between the
// MarketPulse client and the backend REST API.
package models

// Identity is the server-issued snapshot of the authenticated principal.
// It is immutable from the client's perspective: it is replaced wholesale
// on a new login and cleared on logout.
type Identity struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	CompanyName   string `json:"companyName"`
	Industry      string `json:"industry"`
	EmailVerified bool   `json:"emailVerified"`
}

// SignUpData is the payload for account provisioning. Signing up does not
// authenticate: the account stays unverified until the emailed token is
// confirmed.
type SignUpData struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
}

// LoginResult is the backend response to a successful credential check.
// Note that the backend issues a token even for unverified accounts; the
// unverified gate is enforced client-side.
type LoginResult struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}
