package models

import "time"

// BusinessProfile is the stored profile for one user. Payload holds the
// structured profile document (locations, challenges, technology stack) as
// submitted by the client; the two indexed columns are duplicated for
// querying.
type BusinessProfile struct {
	UserID      string
	CompanyName string
	Industry    string
	Payload     []byte
	UpdatedAt   time.Time
}
