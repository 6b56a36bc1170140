package application

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	repo "github.com/yourrightpocket/charityround/internal/domain/repository"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
	"github.com/yourrightpocket/charityround/pkg/money"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeStore backs every fake repository with the same in-memory state
// so cross-repository invariants can be asserted end to end.
type fakeStore struct {
	balances  map[int64]*entity.Balance
	settings  map[int64]*entity.Settings
	users     map[int64]*entity.User
	txns      map[string]*entity.Transaction // by external id
	donations []*entity.Donation
	orgs      map[int64]*entity.Organization
	liked     map[int64]map[string]*entity.UserOrganization // userID -> ein
	prefs     map[int64]map[int64]*entity.Preference        // userID -> orgID
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances: map[int64]*entity.Balance{},
		settings: map[int64]*entity.Settings{},
		users:    map[int64]*entity.User{},
		txns:     map[string]*entity.Transaction{},
		orgs:     map[int64]*entity.Organization{},
		liked:    map[int64]map[string]*entity.UserOrganization{},
		prefs:    map[int64]map[int64]*entity.Preference{},
	}
}

func (st *fakeStore) id() int64 {
	st.nextID++
	return st.nextID
}

func (st *fakeStore) addUser(userID int64) {
	st.users[userID] = &entity.User{ID: userID, Email: "user@example.com", FirstName: "Alex", IsActive: true}
	st.balances[userID] = &entity.Balance{UserID: userID}
	def := entity.DefaultSettings(userID)
	st.settings[userID] = &def
}

func (st *fakeStore) addOrg(name, ein string) *entity.Organization {
	o := &entity.Organization{ID: st.id(), Name: name, EIN: ein, Category: entity.CategoryOther, Verified: true}
	st.orgs[o.ID] = o
	return o
}

// balances

type fakeBalanceRepo struct{ st *fakeStore }

func (r *fakeBalanceRepo) Get(_ context.Context, userID int64) (*entity.Balance, error) {
	b, ok := r.st.balances[userID]
	if !ok {
		return nil, apperrors.NotFound("balance not found")
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBalanceRepo) Credit(_ context.Context, userID int64, amount money.Cents) error {
	b, ok := r.st.balances[userID]
	if !ok {
		return apperrors.NotFound("balance not found")
	}
	b.CurrentBalance += amount
	b.TotalAccumulated += amount
	return nil
}

// settings

type fakeSettingsRepo struct{ st *fakeStore }

func (r *fakeSettingsRepo) Get(_ context.Context, userID int64) (*entity.Settings, error) {
	s, ok := r.st.settings[userID]
	if !ok {
		return nil, apperrors.NotFound("settings not found")
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, s *entity.Settings) error {
	if _, ok := r.st.settings[s.UserID]; !ok {
		return apperrors.NotFound("settings not found")
	}
	copied := *s
	r.st.settings[s.UserID] = &copied
	return nil
}

// users

type fakeUserRepo struct{ st *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.st.users {
		if existing.Email == u.Email {
			return apperrors.Conflict("user already exists")
		}
	}
	u.ID = r.st.id()
	u.IsActive = true
	r.st.users[u.ID] = u
	r.st.balances[u.ID] = &entity.Balance{UserID: u.ID}
	def := entity.DefaultSettings(u.ID)
	r.st.settings[u.ID] = &def
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) GetActiveByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.st.users {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) GetProfile(_ context.Context, id int64) (*entity.Profile, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return &entity.Profile{User: *u, Balance: *r.st.balances[id], Settings: *r.st.settings[id]}, nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id int64) error {
	u, ok := r.st.users[id]
	if !ok {
		return apperrors.NotFound("user not found")
	}
	u.IsActive = false
	return nil
}

// bank accounts

type fakeBankAccountRepo struct {
	accounts []entity.BankAccount
	nextID   int64
}

func (r *fakeBankAccountRepo) Create(_ context.Context, a *entity.BankAccount) error {
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now()
	r.accounts = append(r.accounts, *a)
	return nil
}

func (r *fakeBankAccountRepo) ListByUser(_ context.Context, userID int64) ([]entity.BankAccount, error) {
	var out []entity.BankAccount
	for _, a := range r.accounts {
		if a.UserID == userID && a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

// transactions

type fakeTransactionRepo struct{ st *fakeStore }

func (r *fakeTransactionRepo) Ingest(_ context.Context, txn *entity.Transaction, maxDaily money.Cents) (bool, money.Cents, error) {
	b, ok := r.st.balances[txn.UserID]
	if !ok {
		return false, 0, apperrors.NotFound("balance not found")
	}
	if _, dup := r.st.txns[txn.ExternalID]; dup {
		return false, 0, nil
	}
	credit := txn.RoundupAmount
	if maxDaily > 0 && credit > 0 {
		var today money.Cents
		for _, t := range r.st.txns {
			if t.UserID == txn.UserID && t.Date.Equal(txn.Date) {
				today += t.RoundupAmount
			}
		}
		if remaining := maxDaily - today; remaining <= 0 {
			credit = 0
		} else if credit > remaining {
			credit = remaining
		}
	}
	stored := *txn
	stored.ID = r.st.id()
	stored.RoundupAmount = credit
	stored.ProcessedAt = time.Now()
	r.st.txns[txn.ExternalID] = &stored
	txn.ID = stored.ID
	txn.RoundupAmount = credit
	if credit > 0 {
		b.CurrentBalance += credit
		b.TotalAccumulated += credit
	}
	return true, credit, nil
}

func (r *fakeTransactionRepo) ListRecent(_ context.Context, userID int64, _ int) ([]entity.Transaction, error) {
	var out []entity.Transaction
	for _, t := range r.st.txns {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) RoundupOnDay(_ context.Context, userID int64, day time.Time) (money.Cents, error) {
	var sum money.Cents
	for _, t := range r.st.txns {
		if t.UserID == userID && t.Date.Equal(day) {
			sum += t.RoundupAmount
		}
	}
	return sum, nil
}

// donations

type fakeDonationRepo struct{ st *fakeStore }

func (r *fakeDonationRepo) donate(userID, orgID int64, amount money.Cents) *entity.Donation {
	now := time.Now()
	d := &entity.Donation{
		ID:             r.st.id(),
		UserID:         userID,
		OrganizationID: orgID,
		Amount:         amount,
		Status:         entity.DonationCompleted,
		CreatedAt:      now,
		CompletedAt:    &now,
	}
	r.st.donations = append(r.st.donations, d)
	if o, ok := r.st.orgs[orgID]; ok {
		o.TotalReceived += amount
	}
	return d
}

func (r *fakeDonationRepo) Donate(_ context.Context, userID, orgID int64, amount money.Cents) (*entity.Donation, error) {
	b, ok := r.st.balances[userID]
	if !ok {
		return nil, apperrors.NotFound("balance not found")
	}
	if amount > b.CurrentBalance {
		return nil, apperrors.InsufficientFunds("donation exceeds current balance")
	}
	b.CurrentBalance -= amount
	b.TotalDonated += amount
	return r.donate(userID, orgID, amount), nil
}

func (r *fakeDonationRepo) AutoDonate(_ context.Context, userID int64, threshold money.Cents, prefs []entity.Preference) ([]entity.Donation, error) {
	b, ok := r.st.balances[userID]
	if !ok {
		return nil, apperrors.NotFound("balance not found")
	}
	if b.CurrentBalance <= 0 || b.CurrentBalance < threshold {
		return nil, nil
	}
	weights := make([]int64, len(prefs))
	for i, p := range prefs {
		weights[i] = p.Percent
	}
	shares := money.Split(b.CurrentBalance, weights)
	if shares == nil {
		return nil, apperrors.NoActivePreferences("no active charity preferences")
	}
	total := b.CurrentBalance
	b.CurrentBalance = 0
	b.TotalDonated += total
	var out []entity.Donation
	for i, share := range shares {
		if share.Amount <= 0 {
			continue
		}
		out = append(out, *r.donate(userID, prefs[i].OrganizationID, share.Amount))
	}
	return out, nil
}

func (r *fakeDonationRepo) Refund(_ context.Context, donationID, userID int64) (*entity.Donation, error) {
	for _, d := range r.st.donations {
		if d.ID == donationID && d.UserID == userID {
			if d.Status != entity.DonationCompleted {
				return nil, apperrors.Conflict("only completed donations can be refunded")
			}
			d.Status = entity.DonationRefunded
			b := r.st.balances[userID]
			b.CurrentBalance += d.Amount
			b.TotalDonated -= d.Amount
			if o, ok := r.st.orgs[d.OrganizationID]; ok {
				o.TotalReceived -= d.Amount
			}
			return d, nil
		}
	}
	return nil, apperrors.NotFound("donation not found")
}

func (r *fakeDonationRepo) GetByID(_ context.Context, donationID, userID int64) (*entity.DonationDetail, error) {
	for _, d := range r.st.donations {
		if d.ID == donationID && d.UserID == userID {
			detail := &entity.DonationDetail{Donation: *d}
			if o, ok := r.st.orgs[d.OrganizationID]; ok {
				detail.OrganizationName = o.Name
				detail.OrganizationEIN = o.EIN
			}
			return detail, nil
		}
	}
	return nil, apperrors.NotFound("donation not found")
}

func (r *fakeDonationRepo) ListByUser(_ context.Context, userID int64, _, _ int) ([]entity.DonationDetail, int64, error) {
	var out []entity.DonationDetail
	for _, d := range r.st.donations {
		if d.UserID == userID {
			out = append(out, entity.DonationDetail{Donation: *d})
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeDonationRepo) Stats(_ context.Context, userID int64) (*entity.DonationStats, error) {
	s := &entity.DonationStats{}
	for _, d := range r.st.donations {
		if d.UserID != userID {
			continue
		}
		s.TotalDonations++
		s.TotalAmount += d.Amount
		if d.Status == entity.DonationCompleted {
			s.CompletedDonations++
			s.CompletedAmount += d.Amount
		}
	}
	if s.TotalDonations > 0 {
		s.AverageAmount = money.Cents(int64(s.TotalAmount) / s.TotalDonations)
	}
	return s, nil
}

func (r *fakeDonationRepo) MonthlyStats(_ context.Context, _ int64, _ int) ([]entity.MonthlyDonationStat, error) {
	return nil, nil
}

func (r *fakeDonationRepo) TopOrganizations(_ context.Context, _ int64, _ int) ([]entity.TopOrganizationStat, error) {
	return nil, nil
}

func (r *fakeDonationRepo) AutoDonateCandidates(_ context.Context) ([]int64, error) {
	var out []int64
	for userID, b := range r.st.balances {
		s, ok := r.st.settings[userID]
		if !ok || s.AutoDonateThreshold <= 0 || b.CurrentBalance < s.AutoDonateThreshold {
			continue
		}
		for _, p := range r.st.prefs[userID] {
			if p.IsActive && p.Percent > 0 {
				out = append(out, userID)
				break
			}
		}
	}
	return out, nil
}

// organizations

type fakeOrganizationRepo struct{ st *fakeStore }

func (r *fakeOrganizationRepo) FindOrCreateByEIN(_ context.Context, ein string, defaults entity.Organization) (*entity.Organization, error) {
	for _, o := range r.st.orgs {
		if o.EIN == ein {
			return o, nil
		}
	}
	defaults.ID = r.st.id()
	defaults.EIN = ein
	o := defaults
	r.st.orgs[o.ID] = &o
	return &o, nil
}

func (r *fakeOrganizationRepo) Upsert(_ context.Context, org entity.Organization) (*entity.Organization, error) {
	return r.FindOrCreateByEIN(context.Background(), org.EIN, org)
}

func (r *fakeOrganizationRepo) GetByID(_ context.Context, id int64) (*entity.Organization, error) {
	o, ok := r.st.orgs[id]
	if !ok {
		return nil, apperrors.NotFound("organization not found")
	}
	return o, nil
}

func (r *fakeOrganizationRepo) GetByEIN(_ context.Context, ein string) (*entity.Organization, error) {
	for _, o := range r.st.orgs {
		if o.EIN == ein {
			return o, nil
		}
	}
	return nil, apperrors.NotFound("organization not found")
}

func (r *fakeOrganizationRepo) ListVerified(_ context.Context, category entity.Category) ([]entity.Organization, error) {
	var out []entity.Organization
	for _, o := range r.st.orgs {
		if o.Verified && (category == "" || o.Category == category) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrganizationRepo) Stats(_ context.Context) (*repo.OrganizationStats, error) {
	s := &repo.OrganizationStats{}
	for _, o := range r.st.orgs {
		if o.Verified {
			s.TotalOrganizations++
			s.TotalDonations += o.TotalReceived
		}
	}
	if s.TotalOrganizations > 0 {
		s.AverageDonations = money.Cents(int64(s.TotalDonations) / s.TotalOrganizations)
	}
	return s, nil
}

func (r *fakeOrganizationRepo) ImpactMetrics(_ context.Context, _ []int64) ([]entity.ImpactMetric, error) {
	return nil, nil
}

// liked organizations

type fakeUserOrganizationRepo struct{ st *fakeStore }

func (r *fakeUserOrganizationRepo) Like(_ context.Context, uo *entity.UserOrganization) error {
	byEIN := r.st.liked[uo.UserID]
	if byEIN == nil {
		byEIN = map[string]*entity.UserOrganization{}
		r.st.liked[uo.UserID] = byEIN
	}
	if _, dup := byEIN[uo.EIN]; dup {
		return apperrors.Conflict("organization already liked")
	}
	uo.ID = r.st.id()
	uo.LikedAt = time.Now()
	byEIN[uo.EIN] = uo
	return nil
}

func (r *fakeUserOrganizationRepo) Unlike(_ context.Context, userID int64, ein string) error {
	if _, ok := r.st.liked[userID][ein]; !ok {
		return apperrors.NotFound("liked organization not found")
	}
	delete(r.st.liked[userID], ein)
	return nil
}

func (r *fakeUserOrganizationRepo) ListByUser(_ context.Context, userID int64) ([]entity.UserOrganization, error) {
	var out []entity.UserOrganization
	for _, uo := range r.st.liked[userID] {
		out = append(out, *uo)
	}
	return out, nil
}

func (r *fakeUserOrganizationRepo) GetByEIN(_ context.Context, userID int64, ein string) (*entity.UserOrganization, error) {
	uo, ok := r.st.liked[userID][ein]
	if !ok {
		return nil, apperrors.NotFound("liked organization not found")
	}
	return uo, nil
}

func (r *fakeUserOrganizationRepo) IsLiked(_ context.Context, userID int64, ein string) (bool, error) {
	_, ok := r.st.liked[userID][ein]
	return ok, nil
}

// preferences

type fakePreferenceRepo struct{ st *fakeStore }

func (r *fakePreferenceRepo) SetAllocation(_ context.Context, userID, organizationID, percent int64) (*entity.Preference, error) {
	if percent <= 0 || percent > entity.MaxAllocationPercent {
		return nil, apperrors.Validation("allocation percent out of range")
	}
	byOrg := r.st.prefs[userID]
	if byOrg == nil {
		byOrg = map[int64]*entity.Preference{}
		r.st.prefs[userID] = byOrg
	}
	var total int64
	for orgID, p := range byOrg {
		if p.IsActive && orgID != organizationID {
			total += p.Percent
		}
	}
	if total+percent > entity.MaxAllocationPercent {
		return nil, apperrors.AllocationOverflow("active allocations would exceed 100%")
	}
	p := &entity.Preference{
		ID:             r.st.id(),
		UserID:         userID,
		OrganizationID: organizationID,
		Percent:        percent,
		IsActive:       true,
	}
	byOrg[organizationID] = p
	return p, nil
}

func (r *fakePreferenceRepo) Deactivate(_ context.Context, userID, organizationID int64) error {
	p, ok := r.st.prefs[userID][organizationID]
	if !ok || !p.IsActive {
		return apperrors.NotFound("preference not found")
	}
	p.IsActive = false
	return nil
}

func (r *fakePreferenceRepo) ListActive(_ context.Context, userID int64) ([]entity.Preference, error) {
	var out []entity.Preference
	for _, p := range r.st.prefs[userID] {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePreferenceRepo) ListByUser(_ context.Context, userID int64) ([]entity.Preference, error) {
	var out []entity.Preference
	for _, p := range r.st.prefs[userID] {
		out = append(out, *p)
	}
	return out, nil
}

// dashboard

type fakeDashboardRepo struct{ st *fakeStore }

func (r *fakeDashboardRepo) Suggestions(_ context.Context, userID int64, limit int) ([]entity.Organization, error) {
	donated := map[int64]bool{}
	for _, d := range r.st.donations {
		if d.UserID == userID && d.Status == entity.DonationCompleted {
			donated[d.OrganizationID] = true
		}
	}
	var out []entity.Organization
	for _, o := range r.st.orgs {
		if o.Verified && !donated[o.ID] {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalReceived > out[j].TotalReceived })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeDashboardRepo) MonthlyProgress(_ context.Context, userID int64) (*repo.MonthlyProgress, error) {
	now := time.Now()
	p := &repo.MonthlyProgress{}
	for _, d := range r.st.donations {
		if d.UserID != userID || d.Status != entity.DonationCompleted || d.CompletedAt == nil {
			continue
		}
		if d.CompletedAt.Year() == now.Year() && d.CompletedAt.Month() == now.Month() {
			p.MonthlyDonated += d.Amount
			p.MonthlyDonations++
		}
	}
	return p, nil
}

func (r *fakeDashboardRepo) DailyRoundups(_ context.Context, userID int64) ([]repo.DailyRoundup, error) {
	byDay := map[time.Time]money.Cents{}
	for _, t := range r.st.txns {
		if t.UserID == userID {
			byDay[t.Date] += t.RoundupAmount
		}
	}
	var out []repo.DailyRoundup
	for day, sum := range byDay {
		out = append(out, repo.DailyRoundup{Day: day, Roundup: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *fakeDashboardRepo) CharityUpdates(_ context.Context, userID int64, limit int) ([]repo.CharityUpdate, error) {
	byOrg := map[int64]*repo.CharityUpdate{}
	for _, d := range r.st.donations {
		if d.UserID != userID || d.Status != entity.DonationCompleted {
			continue
		}
		u := byOrg[d.OrganizationID]
		if u == nil {
			o := r.st.orgs[d.OrganizationID]
			u = &repo.CharityUpdate{OrganizationName: o.Name, Category: o.Category}
			byOrg[d.OrganizationID] = u
		}
		u.TotalDonated += d.Amount
		if d.CompletedAt != nil && d.CompletedAt.After(u.LastDonatedAt) {
			u.LastDonatedAt = *d.CompletedAt
		}
	}
	var out []repo.CharityUpdate
	for _, u := range byOrg {
		out = append(out, *u)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeDashboardRepo) DonatedOrganizationIDs(_ context.Context, userID int64) ([]int64, error) {
	seen := map[int64]bool{}
	var out []int64
	for _, d := range r.st.donations {
		if d.UserID == userID && d.Status == entity.DonationCompleted && !seen[d.OrganizationID] {
			seen[d.OrganizationID] = true
			out = append(out, d.OrganizationID)
		}
	}
	return out, nil
}

// interface conformance

var (
	_ repo.BalanceRepository          = (*fakeBalanceRepo)(nil)
	_ repo.SettingsRepository         = (*fakeSettingsRepo)(nil)
	_ repo.UserRepository             = (*fakeUserRepo)(nil)
	_ repo.BankAccountRepository      = (*fakeBankAccountRepo)(nil)
	_ repo.TransactionRepository      = (*fakeTransactionRepo)(nil)
	_ repo.DonationRepository         = (*fakeDonationRepo)(nil)
	_ repo.OrganizationRepository     = (*fakeOrganizationRepo)(nil)
	_ repo.UserOrganizationRepository = (*fakeUserOrganizationRepo)(nil)
	_ repo.PreferenceRepository       = (*fakePreferenceRepo)(nil)
	_ repo.DashboardRepository        = (*fakeDashboardRepo)(nil)
)

func newLedgerService(st *fakeStore) *LedgerService {
	return &LedgerService{
		Balances:     &fakeBalanceRepo{st: st},
		Transactions: &fakeTransactionRepo{st: st},
		Donations:    &fakeDonationRepo{st: st},
		Settings:     &fakeSettingsRepo{st: st},
		Prefs:        &fakePreferenceRepo{st: st},
		Orgs:         &fakeOrganizationRepo{st: st},
		Liked:        &fakeUserOrganizationRepo{st: st},
		Users:        &fakeUserRepo{st: st},
		Logger:       testLogger(),
	}
}
