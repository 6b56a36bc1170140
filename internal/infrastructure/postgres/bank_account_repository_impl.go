package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/internal/domain/repository"
)

type BankAccountRepository struct {
	pool *pgxpool.Pool
}

func NewBankAccountRepository(pool *pgxpool.Pool) *BankAccountRepository {
	return &BankAccountRepository{pool: pool}
}

func (r *BankAccountRepository) Create(ctx context.Context, a *entity.BankAccount) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bank_accounts (user_id, external_account_id, account_name, account_type, bank_name, last_four, is_primary, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, a.UserID, a.ExternalAccountID, a.AccountName, a.AccountType, a.BankName, a.LastFour, a.IsPrimary, a.IsActive)
	return row.Scan(&a.ID, &a.CreatedAt)
}

func (r *BankAccountRepository) ListByUser(ctx context.Context, userID int64) ([]entity.BankAccount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, external_account_id, account_name, account_type, bank_name, last_four, is_primary, is_active, created_at
		FROM bank_accounts
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY is_primary DESC, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []entity.BankAccount
	for rows.Next() {
		var a entity.BankAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.ExternalAccountID, &a.AccountName, &a.AccountType,
			&a.BankName, &a.LastFour, &a.IsPrimary, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

var _ repository.BankAccountRepository = (*BankAccountRepository)(nil)
