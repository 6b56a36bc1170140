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

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

func (r *SettingsRepository) Get(ctx context.Context, userID int64) (*entity.Settings, error) {
	s := &entity.Settings{}
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, auto_donate_threshold, round_up_enabled, max_daily_roundup, notification_email, notification_push, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`, userID)
	if err := row.Scan(&s.UserID, &s.AutoDonateThreshold, &s.RoundUpEnabled, &s.MaxDailyRoundup,
		&s.NotificationEmail, &s.NotificationPush, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("settings not found")
		}
		return nil, err
	}
	return s, nil
}

func (r *SettingsRepository) Update(ctx context.Context, s *entity.Settings) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE user_settings
		SET auto_donate_threshold = $2, round_up_enabled = $3, max_daily_roundup = $4,
		    notification_email = $5, notification_push = $6, updated_at = now()
		WHERE user_id = $1
	`, s.UserID, s.AutoDonateThreshold, s.RoundUpEnabled, s.MaxDailyRoundup, s.NotificationEmail, s.NotificationPush)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.NotFound("settings not found")
	}
	return nil
}

var _ repository.SettingsRepository = (*SettingsRepository)(nil)
