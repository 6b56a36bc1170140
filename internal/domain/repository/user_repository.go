package repository

import (
	"context"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
)

// UserRepository defines user-related database operations. Create
// provisions the user together with default settings and a zero balance
// in one unit, so a registered user always has a ledger position.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// GetActiveByEmail only returns users that are not soft-disabled.
	GetActiveByEmail(ctx context.Context, email string) (*entity.User, error)
	GetProfile(ctx context.Context, id int64) (*entity.Profile, error)
	Deactivate(ctx context.Context, id int64) error
}

// BankAccountRepository manages a user's linked funding accounts.
type BankAccountRepository interface {
	Create(ctx context.Context, a *entity.BankAccount) error
	ListByUser(ctx context.Context, userID int64) ([]entity.BankAccount, error)
}

// SettingsRepository reads and writes the per-user round-up knobs.
type SettingsRepository interface {
	Get(ctx context.Context, userID int64) (*entity.Settings, error)
	Update(ctx context.Context, s *entity.Settings) error
}
