package models

import "time"

// User is an account known to this API. Accounts are issued elsewhere and
// recorded here the first time their token is seen.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
