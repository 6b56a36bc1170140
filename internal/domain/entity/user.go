package entity

import "time"

// User is the root aggregate. Balance, preferences, transactions,
// donations and liked organizations are all owned by it and cascade on
// delete. Password holds a bcrypt hash, never plaintext.
type User struct {
	ID        int64
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the read model returned by the profile endpoint: the user
// joined with balance and settings.
type Profile struct {
	User     User
	Balance  Balance
	Settings Settings
}
