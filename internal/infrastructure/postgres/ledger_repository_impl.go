package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/internal/domain/repository"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
	"github.com/yourrightpocket/charityround/pkg/money"
)

type BalanceRepository struct {
	pool *pgxpool.Pool
}

func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

func (r *BalanceRepository) Get(ctx context.Context, userID int64) (*entity.Balance, error) {
	b := &entity.Balance{}
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, current_balance, total_accumulated, total_donated, last_updated
		FROM user_balances
		WHERE user_id = $1
	`, userID)
	if err := row.Scan(&b.UserID, &b.CurrentBalance, &b.TotalAccumulated, &b.TotalDonated, &b.LastUpdated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("balance not found")
		}
		return nil, err
	}
	return b, nil
}

// Credit bumps current_balance and total_accumulated in one UPDATE; the
// row lock serializes concurrent credits for the same user.
func (r *BalanceRepository) Credit(ctx context.Context, userID int64, amount money.Cents) error {
	if amount <= 0 {
		return apperrors.InvalidAmount("credit amount must be positive")
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE user_balances
		SET current_balance = current_balance + $2,
		    total_accumulated = total_accumulated + $2,
		    last_updated = now()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.NotFound("balance not found")
	}
	return nil
}

var _ repository.BalanceRepository = (*BalanceRepository)(nil)

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Ingest records the transaction and credits its round-up in one
// transaction. The balance row is locked first so the daily-cap check
// and the insert serialize per user; the unique index on external_id
// makes duplicate deliveries a clean no-op.
func (r *TransactionRepository) Ingest(ctx context.Context, txn *entity.Transaction, maxDaily money.Cents) (bool, money.Cents, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current money.Cents
	row := tx.QueryRow(ctx, `
		SELECT current_balance FROM user_balances WHERE user_id = $1 FOR UPDATE
	`, txn.UserID)
	if err := row.Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, apperrors.NotFound("balance not found")
		}
		return false, 0, err
	}

	credit := txn.RoundupAmount
	if maxDaily > 0 && credit > 0 {
		var today money.Cents
		row := tx.QueryRow(ctx, `
			SELECT COALESCE(SUM(roundup_amount), 0)
			FROM transactions
			WHERE user_id = $1 AND transaction_date = $2
		`, txn.UserID, txn.Date)
		if err := row.Scan(&today); err != nil {
			return false, 0, err
		}
		if remaining := maxDaily - today; remaining <= 0 {
			credit = 0
		} else if credit > remaining {
			credit = remaining
		}
	}

	// Store the credited round-up so per-day sums stay consistent with
	// what the balance actually received.
	row = tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, account_id, external_id, amount, rounded_amount, roundup_amount, merchant_name, category, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id, processed_at
	`, txn.UserID, txn.AccountID, txn.ExternalID, txn.Amount, txn.RoundedAmount, credit, txn.MerchantName, txn.Category, txn.Date)
	if err := row.Scan(&txn.ID, &txn.ProcessedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already ingested: idempotent success, nothing credited.
			return false, 0, tx.Commit(ctx)
		}
		return false, 0, err
	}
	txn.RoundupAmount = credit

	if credit > 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE user_balances
			SET current_balance = current_balance + $2,
			    total_accumulated = total_accumulated + $2,
			    last_updated = now()
			WHERE user_id = $1
		`, txn.UserID, credit); err != nil {
			return false, 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, err
	}
	return true, credit, nil
}

func (r *TransactionRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]entity.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, account_id, external_id, amount, rounded_amount, roundup_amount,
		       COALESCE(merchant_name, ''), COALESCE(category, ''), transaction_date, processed_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY processed_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.ExternalID, &t.Amount, &t.RoundedAmount,
			&t.RoundupAmount, &t.MerchantName, &t.Category, &t.Date, &t.ProcessedAt); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (r *TransactionRepository) RoundupOnDay(ctx context.Context, userID int64, day time.Time) (money.Cents, error) {
	var sum money.Cents
	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(roundup_amount), 0)
		FROM transactions
		WHERE user_id = $1 AND transaction_date = $2
	`, userID, day)
	if err := row.Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)
