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

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

// lockBalance takes the per-user row lock that serializes every ledger
// mutation for that user.
func lockBalance(ctx context.Context, tx pgx.Tx, userID int64) (money.Cents, error) {
	var current money.Cents
	row := tx.QueryRow(ctx, `
		SELECT current_balance FROM user_balances WHERE user_id = $1 FOR UPDATE
	`, userID)
	if err := row.Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("balance not found")
		}
		return 0, err
	}
	return current, nil
}

func insertCompletedDonation(ctx context.Context, tx pgx.Tx, userID, organizationID int64, amount money.Cents) (*entity.Donation, error) {
	d := &entity.Donation{
		UserID:         userID,
		OrganizationID: organizationID,
		Amount:         amount,
		Status:         entity.DonationCompleted,
	}
	var completedAt time.Time
	row := tx.QueryRow(ctx, `
		INSERT INTO donations (user_id, organization_id, amount, status, completed_at)
		VALUES ($1, $2, $3, 'completed', now())
		RETURNING id, created_at, completed_at
	`, userID, organizationID, amount)
	if err := row.Scan(&d.ID, &d.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	d.CompletedAt = &completedAt

	if _, err := tx.Exec(ctx, `
		UPDATE organizations SET total_received = total_received + $2, updated_at = now() WHERE id = $1
	`, organizationID, amount); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DonationRepository) Donate(ctx context.Context, userID, organizationID int64, amount money.Cents) (*entity.Donation, error) {
	if amount <= 0 {
		return nil, apperrors.InvalidAmount("amount must be positive")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := lockBalance(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if amount > current {
		return nil, apperrors.InsufficientFunds("donation exceeds current balance")
	}

	if _, err := tx.Exec(ctx, `
		UPDATE user_balances
		SET current_balance = current_balance - $2,
		    total_donated = total_donated + $2,
		    last_updated = now()
		WHERE user_id = $1
	`, userID, amount); err != nil {
		return nil, err
	}

	d, err := insertCompletedDonation(ctx, tx, userID, organizationID, amount)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DonationRepository) AutoDonate(ctx context.Context, userID int64, threshold money.Cents, prefs []entity.Preference) ([]entity.Donation, error) {
	if len(prefs) == 0 {
		return nil, apperrors.NoActivePreferences("no active charity preferences")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := lockBalance(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if current <= 0 || current < threshold {
		return nil, tx.Commit(ctx)
	}

	weights := make([]int64, len(prefs))
	for i, p := range prefs {
		weights[i] = p.Percent
	}
	shares := money.Split(current, weights)
	if shares == nil {
		return nil, apperrors.NoActivePreferences("no active charity preferences")
	}

	if _, err := tx.Exec(ctx, `
		UPDATE user_balances
		SET current_balance = 0,
		    total_donated = total_donated + $2,
		    last_updated = now()
		WHERE user_id = $1
	`, userID, current); err != nil {
		return nil, err
	}

	donations := make([]entity.Donation, 0, len(shares))
	for i, share := range shares {
		if share.Amount <= 0 {
			continue
		}
		d, err := insertCompletedDonation(ctx, tx, userID, prefs[i].OrganizationID, share.Amount)
		if err != nil {
			return nil, err
		}
		donations = append(donations, *d)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *DonationRepository) Refund(ctx context.Context, donationID, userID int64) (*entity.Donation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	d := &entity.Donation{}
	var completedAt *time.Time
	row := tx.QueryRow(ctx, `
		SELECT id, user_id, organization_id, amount, status, created_at, completed_at
		FROM donations
		WHERE id = $1 AND user_id = $2
	`, donationID, userID)
	if err := row.Scan(&d.ID, &d.UserID, &d.OrganizationID, &d.Amount, &d.Status, &d.CreatedAt, &completedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("donation not found")
		}
		return nil, err
	}
	d.CompletedAt = completedAt

	if _, err := lockBalance(ctx, tx, userID); err != nil {
		return nil, err
	}

	// The status guard makes a concurrent double refund lose the race.
	res, err := tx.Exec(ctx, `
		UPDATE donations SET status = 'refunded' WHERE id = $1 AND status = 'completed'
	`, donationID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, apperrors.Conflict("only completed donations can be refunded")
	}
	d.Status = entity.DonationRefunded

	if _, err := tx.Exec(ctx, `
		UPDATE user_balances
		SET current_balance = current_balance + $2,
		    total_donated = total_donated - $2,
		    last_updated = now()
		WHERE user_id = $1
	`, userID, d.Amount); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE organizations SET total_received = total_received - $2, updated_at = now() WHERE id = $1
	`, d.OrganizationID, d.Amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DonationRepository) GetByID(ctx context.Context, donationID, userID int64) (*entity.DonationDetail, error) {
	d := &entity.DonationDetail{}
	row := r.pool.QueryRow(ctx, `
		SELECT d.id, d.user_id, d.organization_id, d.amount, d.status, d.created_at, d.completed_at,
		       o.name, COALESCE(o.ein, ''), COALESCE(o.logo_url, ''), COALESCE(o.website, ''), o.category
		FROM donations d
		JOIN organizations o ON o.id = d.organization_id
		WHERE d.id = $1 AND d.user_id = $2
	`, donationID, userID)
	if err := row.Scan(&d.ID, &d.UserID, &d.OrganizationID, &d.Amount, &d.Status, &d.CreatedAt, &d.CompletedAt,
		&d.OrganizationName, &d.OrganizationEIN, &d.LogoURL, &d.WebsiteURL, &d.Category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("donation not found")
		}
		return nil, err
	}
	return d, nil
}

func (r *DonationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]entity.DonationDetail, int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.user_id, d.organization_id, d.amount, d.status, d.created_at, d.completed_at,
		       o.name, COALESCE(o.ein, ''), COALESCE(o.logo_url, ''), COALESCE(o.website, ''), o.category
		FROM donations d
		JOIN organizations o ON o.id = d.organization_id
		WHERE d.user_id = $1
		ORDER BY d.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var donations []entity.DonationDetail
	for rows.Next() {
		var d entity.DonationDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.OrganizationID, &d.Amount, &d.Status, &d.CreatedAt, &d.CompletedAt,
			&d.OrganizationName, &d.OrganizationEIN, &d.LogoURL, &d.WebsiteURL, &d.Category); err != nil {
			return nil, 0, err
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donations WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}

func (r *DonationRepository) Stats(ctx context.Context, userID int64) (*entity.DonationStats, error) {
	s := &entity.DonationStats{}
	row := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(amount), 0),
		       COALESCE(AVG(amount), 0)::BIGINT,
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0)
		FROM donations
		WHERE user_id = $1
	`, userID)
	if err := row.Scan(&s.TotalDonations, &s.TotalAmount, &s.AverageAmount, &s.CompletedDonations, &s.CompletedAmount); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *DonationRepository) MonthlyStats(ctx context.Context, userID int64, months int) ([]entity.MonthlyDonationStat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(completed_at, 'YYYY-MM') AS month, COUNT(*), COALESCE(SUM(amount), 0)
		FROM donations
		WHERE user_id = $1 AND status = 'completed' AND completed_at IS NOT NULL
		GROUP BY month
		ORDER BY month DESC
		LIMIT $2
	`, userID, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []entity.MonthlyDonationStat
	for rows.Next() {
		var m entity.MonthlyDonationStat
		if err := rows.Scan(&m.Month, &m.DonationCount, &m.TotalAmount); err != nil {
			return nil, err
		}
		stats = append(stats, m)
	}
	return stats, rows.Err()
}

func (r *DonationRepository) TopOrganizations(ctx context.Context, userID int64, limit int) ([]entity.TopOrganizationStat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.name, COALESCE(o.ein, ''), COALESCE(o.logo_url, ''), COUNT(d.id), COALESCE(SUM(d.amount), 0)
		FROM donations d
		JOIN organizations o ON o.id = d.organization_id
		WHERE d.user_id = $1 AND d.status = 'completed'
		GROUP BY o.id, o.name, o.ein, o.logo_url
		ORDER BY SUM(d.amount) DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []entity.TopOrganizationStat
	for rows.Next() {
		var t entity.TopOrganizationStat
		if err := rows.Scan(&t.OrganizationName, &t.OrganizationEIN, &t.LogoURL, &t.DonationCount, &t.TotalDonated); err != nil {
			return nil, err
		}
		stats = append(stats, t)
	}
	return stats, rows.Err()
}

func (r *DonationRepository) AutoDonateCandidates(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.user_id
		FROM user_balances b
		JOIN user_settings s ON s.user_id = b.user_id
		WHERE s.auto_donate_threshold > 0
		  AND b.current_balance >= s.auto_donate_threshold
		  AND EXISTS (
			SELECT 1 FROM user_charity_preferences p
			WHERE p.user_id = b.user_id AND p.is_active = TRUE AND p.allocation_percent > 0
		  )
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ repository.DonationRepository = (*DonationRepository)(nil)
