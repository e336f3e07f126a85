package models

import "time"

// User is an account row. PasswordHash is a bcrypt hash; it is empty for
// accounts created through a federated provider.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  []byte
	Role          string
	CompanyName   string
	Industry      string
	EmailVerified bool
	CreatedAt     time.Time
}
