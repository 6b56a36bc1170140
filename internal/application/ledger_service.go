package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	repo "github.com/yourrightpocket/charityround/internal/domain/repository"
	"github.com/yourrightpocket/charityround/internal/infrastructure/everyorg"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
	"github.com/yourrightpocket/charityround/pkg/helpers"
	"github.com/yourrightpocket/charityround/pkg/mailer"
	"github.com/yourrightpocket/charityround/pkg/money"
)

// TransactionJob is the JSON payload put on the RabbitMQ transactions
// queue by the ingest endpoint and consumed by the ingest worker.
type TransactionJob struct {
	UserID       int64  `json:"user_id"`
	AccountID    int64  `json:"account_id"`
	ExternalID   string `json:"external_id"`
	AmountCents  int64  `json:"amount_cents"`
	MerchantName string `json:"merchant_name"`
	Category     string `json:"category"`
	Date         string `json:"date"` // YYYY-MM-DD
}

// LedgerService owns the money flow: transaction ingestion with
// round-up credit, manual and automatic donations, and refunds.
type LedgerService struct {
	Balances     repo.BalanceRepository
	Transactions repo.TransactionRepository
	Donations    repo.DonationRepository
	Settings     repo.SettingsRepository
	Prefs        repo.PreferenceRepository
	Orgs         repo.OrganizationRepository
	Liked        repo.UserOrganizationRepository
	Users        repo.UserRepository
	Receipts     *helpers.RabbitPublisher
	Logger       *logrus.Logger
}

func (s *LedgerService) Balance(ctx context.Context, userID int64) (*entity.Balance, error) {
	return s.Balances.Get(ctx, userID)
}

func (s *LedgerService) RecentTransactions(ctx context.Context, userID int64, limit int) ([]entity.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Transactions.ListRecent(ctx, userID, limit)
}

// IngestTransaction records a purchase and credits its round-up. It is
// idempotent on ExternalID; created reports whether this delivery was
// the first. When the credit lifts the balance over the user's
// threshold and active preferences exist, the balance is auto-donated
// in the same call.
func (s *LedgerService) IngestTransaction(ctx context.Context, job TransactionJob) (*entity.Transaction, bool, error) {
	if job.ExternalID == "" {
		return nil, false, apperrors.Validation("external_id is required")
	}
	amount := money.Cents(job.AmountCents)
	if amount <= 0 {
		return nil, false, apperrors.InvalidAmount("amount must be positive")
	}
	date, err := time.Parse("2006-01-02", job.Date)
	if err != nil {
		return nil, false, apperrors.Validation("date must be YYYY-MM-DD")
	}

	settings, err := s.Settings.Get(ctx, job.UserID)
	if err != nil {
		return nil, false, err
	}

	roundup := money.Cents(0)
	if settings.RoundUpEnabled {
		roundup = money.Roundup(amount)
	}
	txn := &entity.Transaction{
		UserID:        job.UserID,
		AccountID:     job.AccountID,
		ExternalID:    job.ExternalID,
		Amount:        amount,
		RoundedAmount: amount + roundup,
		RoundupAmount: roundup,
		MerchantName:  job.MerchantName,
		Category:      job.Category,
		Date:          date,
	}

	created, credited, err := s.Transactions.Ingest(ctx, txn, settings.MaxDailyRoundup)
	if err != nil {
		return nil, false, err
	}
	if !created {
		s.Logger.WithFields(logrus.Fields{
			"user_id":     job.UserID,
			"external_id": job.ExternalID,
		}).Debug("duplicate transaction ignored")
		return txn, false, nil
	}

	s.Logger.WithFields(logrus.Fields{
		"user_id":     job.UserID,
		"external_id": job.ExternalID,
		"credited":    credited,
	}).Info("transaction ingested")

	if credited > 0 {
		if _, err := s.AutoDonate(ctx, job.UserID); err != nil &&
			!apperrors.Is(err, apperrors.KindNoActivePreferences) {
			// The credit stands; the sweep retries the disbursement.
			s.Logger.WithError(err).WithField("user_id", job.UserID).Warn("auto-donate after credit failed")
		}
	}
	return txn, true, nil
}

// DonateInput identifies the target either by local organization id or
// by EIN.
type DonateInput struct {
	OrganizationID int64
	EIN            string
	Amount         money.Cents
}

// Donate makes a one-off donation from the accumulated balance. An EIN
// target resolves against the canonical directory first, then the
// caller's liked snapshot, which creates a canonical row when needed.
func (s *LedgerService) Donate(ctx context.Context, userID int64, in DonateInput) (*entity.Donation, error) {
	if in.Amount <= 0 {
		return nil, apperrors.InvalidAmount("amount must be positive")
	}
	org, err := s.resolveOrganization(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	d, err := s.Donations.Donate(ctx, userID, org.ID, in.Amount)
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{
		"user_id":         userID,
		"organization_id": org.ID,
		"amount":          d.Amount,
	}).Info("donation completed")
	s.enqueueReceipt(ctx, userID, org.Name, d)
	return d, nil
}

func (s *LedgerService) resolveOrganization(ctx context.Context, userID int64, in DonateInput) (*entity.Organization, error) {
	if in.OrganizationID > 0 {
		return s.Orgs.GetByID(ctx, in.OrganizationID)
	}
	if in.EIN == "" {
		return nil, apperrors.OrgUnresolvable("organization_id or ein is required")
	}
	org, err := s.Orgs.GetByEIN(ctx, in.EIN)
	if err == nil {
		return org, nil
	}
	if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}
	snapshot, err := s.Liked.GetByEIN(ctx, userID, in.EIN)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, apperrors.OrgUnresolvable("organization is not known; like it first or pass organization_id")
		}
		return nil, err
	}
	return s.Orgs.FindOrCreateByEIN(ctx, in.EIN, entity.Organization{
		Name:        snapshot.Name,
		Description: snapshot.Description,
		Category:    everyorg.MapCategory(snapshot.Tags),
		Website:     snapshot.WebsiteURL,
		LogoURL:     snapshot.LogoURL,
		Verified:    true,
	})
}

// AutoDonate disburses the balance across active preferences once it
// has reached the user's threshold. Below threshold it is a quiet
// no-op.
func (s *LedgerService) AutoDonate(ctx context.Context, userID int64) ([]entity.Donation, error) {
	prefs, err := s.Prefs.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(prefs) == 0 {
		return nil, apperrors.NoActivePreferences("no active charity preferences")
	}
	settings, err := s.Settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings.AutoDonateThreshold <= 0 {
		return nil, nil
	}
	donations, err := s.Donations.AutoDonate(ctx, userID, settings.AutoDonateThreshold, prefs)
	if err != nil {
		return nil, err
	}
	if len(donations) == 0 {
		return nil, nil
	}
	s.Logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"donations": len(donations),
	}).Info("auto-donate disbursed")
	for i := range donations {
		d := donations[i]
		org, oErr := s.Orgs.GetByID(ctx, d.OrganizationID)
		if oErr != nil {
			continue
		}
		s.enqueueReceipt(ctx, userID, org.Name, &d)
	}
	return donations, nil
}

// Sweep runs auto-donate for every user whose balance has reached
// threshold. Called on a timer by the ingest worker.
func (s *LedgerService) Sweep(ctx context.Context) error {
	userIDs, err := s.Donations.AutoDonateCandidates(ctx)
	if err != nil {
		return err
	}
	for _, userID := range userIDs {
		if _, err := s.AutoDonate(ctx, userID); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("sweep auto-donate failed")
		}
	}
	return nil
}

func (s *LedgerService) Refund(ctx context.Context, donationID, userID int64) (*entity.Donation, error) {
	d, err := s.Donations.Refund(ctx, donationID, userID)
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"donation_id": donationID,
		"amount":      d.Amount,
	}).Info("donation refunded")
	return d, nil
}

func (s *LedgerService) Donation(ctx context.Context, donationID, userID int64) (*entity.DonationDetail, error) {
	return s.Donations.GetByID(ctx, donationID, userID)
}

func (s *LedgerService) ListDonations(ctx context.Context, userID int64, limit, offset int) ([]entity.DonationDetail, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Donations.ListByUser(ctx, userID, limit, offset)
}

// DonationSummary bundles the stats endpoints into one read.
type DonationSummary struct {
	Stats   *entity.DonationStats
	Monthly []entity.MonthlyDonationStat
	Top     []entity.TopOrganizationStat
}

func (s *LedgerService) DonationStats(ctx context.Context, userID int64) (*DonationSummary, error) {
	stats, err := s.Donations.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	monthly, err := s.Donations.MonthlyStats(ctx, userID, 12)
	if err != nil {
		return nil, err
	}
	top, err := s.Donations.TopOrganizations(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	return &DonationSummary{Stats: stats, Monthly: monthly, Top: top}, nil
}

func (s *LedgerService) enqueueReceipt(ctx context.Context, userID int64, orgName string, d *entity.Donation) {
	if s.Receipts == nil || d.CompletedAt == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return
	}
	job := mailer.ReceiptJob{
		To:               u.Email,
		UserName:         u.FirstName,
		OrganizationName: orgName,
		Amount:           d.Amount.String(),
		DonationID:       d.ID,
		CompletedAt:      d.CompletedAt.UTC().Format(time.RFC3339),
	}
	if err := s.Receipts.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("donation_id", d.ID).Warn("enqueue receipt failed")
	}
}
