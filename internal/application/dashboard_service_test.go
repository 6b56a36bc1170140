package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourrightpocket/charityround/pkg/money"
)

func newDashboardService(st *fakeStore) *DashboardService {
	return &DashboardService{
		Dashboard:    &fakeDashboardRepo{st: st},
		Balances:     &fakeBalanceRepo{st: st},
		Settings:     &fakeSettingsRepo{st: st},
		Orgs:         &fakeOrganizationRepo{st: st},
		Donations:    &fakeDonationRepo{st: st},
		Transactions: &fakeTransactionRepo{st: st},
		Logger:       testLogger(),
	}
}

func TestDashboardViewComposesAggregates(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	funded := st.addOrg("Red Cross", "530196605")
	fresh := st.addOrg("Khan Academy", "262544963")

	ledger := newLedgerService(st)
	_, _, err := ledger.IngestTransaction(context.Background(), ingestJob(1, "txn-1", 453))
	require.NoError(t, err)
	_, _, err = ledger.IngestTransaction(context.Background(), ingestJob(1, "txn-2", 920))
	require.NoError(t, err)

	_, err = ledger.Donate(context.Background(), 1, DonateInput{OrganizationID: funded.ID, Amount: 100})
	require.NoError(t, err)

	view, err := newDashboardService(st).View(context.Background(), 1)
	require.NoError(t, err)

	// 47 + 80 accumulated, 100 donated
	assert.Equal(t, money.Cents(27), view.Balance.CurrentBalance)
	assert.Equal(t, money.Cents(100), view.Monthly.MonthlyDonated)
	assert.Equal(t, int64(1), view.Monthly.MonthlyDonations)

	require.Len(t, view.Suggestions, 1)
	assert.Equal(t, fresh.ID, view.Suggestions[0].ID)

	require.Len(t, view.Updates, 1)
	assert.Equal(t, "Red Cross", view.Updates[0].OrganizationName)
	assert.Equal(t, money.Cents(100), view.Updates[0].TotalDonated)

	require.Len(t, view.DailyRoundups, 1)
	assert.Equal(t, money.Cents(127), view.DailyRoundups[0].Roundup)
}

func TestDashboardGoalsProgress(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	st.settings[1].AutoDonateThreshold = 500
	st.balances[1].CurrentBalance = 125
	st.balances[1].TotalAccumulated = 125

	goals, err := newDashboardService(st).Goals(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(500), goals.Threshold)
	assert.Equal(t, money.Cents(125), goals.Balance.CurrentBalance)
	assert.Equal(t, money.Cents(0), goals.Monthly.MonthlyDonated)
}

func TestDashboardActivityListsBothFeeds(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	org := st.addOrg("Red Cross", "530196605")

	ledger := newLedgerService(st)
	_, _, err := ledger.IngestTransaction(context.Background(), ingestJob(1, "txn-1", 453))
	require.NoError(t, err)
	_, err = ledger.Donate(context.Background(), 1, DonateInput{OrganizationID: org.ID, Amount: 20})
	require.NoError(t, err)

	activity, err := newDashboardService(st).Activity(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, activity.Donations, 1)
	assert.Len(t, activity.Transactions, 1)
}

func TestDashboardImpactCollectsMetricsForFundedOrgs(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	org := st.addOrg("Red Cross", "530196605")
	st.balances[1].CurrentBalance = 300
	st.balances[1].TotalAccumulated = 300

	ledger := newLedgerService(st)
	_, err := ledger.Donate(context.Background(), 1, DonateInput{OrganizationID: org.ID, Amount: 300})
	require.NoError(t, err)

	impact, err := newDashboardService(st).Impact(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(300), impact.Balance.TotalDonated)
	assert.Empty(t, impact.Metrics)
}
