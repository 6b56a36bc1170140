package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/internal/domain/repository"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts the user plus default settings and a zero balance in
// one transaction, so every registered user has a ledger position.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, is_active, created_at, updated_at
	`, u.Email, u.Password, u.FirstName, u.LastName, u.Phone)
	if err := row.Scan(&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.Conflict("user already exists")
		}
		return err
	}

	def := entity.DefaultSettings(u.ID)
	if _, err := tx.Exec(ctx, `
		INSERT INTO user_settings (user_id, auto_donate_threshold, round_up_enabled, max_daily_roundup, notification_email, notification_push)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, def.AutoDonateThreshold, def.RoundUpEnabled, def.MaxDailyRoundup, def.NotificationEmail, def.NotificationPush); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_balances (user_id, current_balance, total_accumulated, total_donated)
		VALUES ($1, 0, 0, 0)
	`, u.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, COALESCE(phone, ''), is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetActiveByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, COALESCE(phone, ''), is_active, created_at, updated_at
		FROM users
		WHERE email = $1 AND is_active = TRUE
	`, email)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetProfile(ctx context.Context, id int64) (*entity.Profile, error) {
	p := &entity.Profile{}
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.first_name, u.last_name, COALESCE(u.phone, ''), u.is_active, u.created_at, u.updated_at,
		       b.current_balance, b.total_accumulated, b.total_donated, b.last_updated,
		       s.auto_donate_threshold, s.round_up_enabled, s.max_daily_roundup, s.notification_email, s.notification_push
		FROM users u
		JOIN user_balances b ON b.user_id = u.id
		JOIN user_settings s ON s.user_id = u.id
		WHERE u.id = $1
	`, id)
	if err := row.Scan(
		&p.User.ID, &p.User.Email, &p.User.FirstName, &p.User.LastName, &p.User.Phone,
		&p.User.IsActive, &p.User.CreatedAt, &p.User.UpdatedAt,
		&p.Balance.CurrentBalance, &p.Balance.TotalAccumulated, &p.Balance.TotalDonated, &p.Balance.LastUpdated,
		&p.Settings.AutoDonateThreshold, &p.Settings.RoundUpEnabled, &p.Settings.MaxDailyRoundup,
		&p.Settings.NotificationEmail, &p.Settings.NotificationPush,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	p.Balance.UserID = id
	p.Settings.UserID = id
	return p, nil
}

func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
