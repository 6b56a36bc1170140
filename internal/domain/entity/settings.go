package entity

import (
	"time"

	"github.com/yourrightpocket/charityround/pkg/money"
)

// Settings holds a user's round-up and auto-donate knobs, one row per
// user, created with defaults at registration.
type Settings struct {
	UserID              int64
	AutoDonateThreshold money.Cents
	RoundUpEnabled      bool
	MaxDailyRoundup     money.Cents
	NotificationEmail   bool
	NotificationPush    bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DefaultSettings are applied at registration.
func DefaultSettings(userID int64) Settings {
	return Settings{
		UserID:              userID,
		AutoDonateThreshold: 500,  // $5.00
		RoundUpEnabled:      true,
		MaxDailyRoundup:     1000, // $10.00
		NotificationEmail:   true,
		NotificationPush:    true,
	}
}
