package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourrightpocket/charityround/pkg/apperrors"
	"github.com/yourrightpocket/charityround/pkg/money"
)

func int64p(v int64) *int64 { return &v }
func boolp(v bool) *bool    { return &v }

func TestUpdateSettingsIsPartial(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	svc := &SettingsService{Settings: &fakeSettingsRepo{st: st}, Logger: testLogger()}

	updated, err := svc.Update(context.Background(), 1, UpdateSettingsInput{
		AutoDonateThreshold: int64p(2000),
		RoundUpEnabled:      boolp(false),
	})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(2000), updated.AutoDonateThreshold)
	assert.False(t, updated.RoundUpEnabled)
	// Untouched fields keep their defaults.
	assert.Equal(t, money.Cents(1000), updated.MaxDailyRoundup)
	assert.True(t, updated.NotificationEmail)

	stored, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(2000), stored.AutoDonateThreshold)
}

func TestUpdateSettingsRejectsNegatives(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	svc := &SettingsService{Settings: &fakeSettingsRepo{st: st}, Logger: testLogger()}

	_, err := svc.Update(context.Background(), 1, UpdateSettingsInput{AutoDonateThreshold: int64p(-1)})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Update(context.Background(), 1, UpdateSettingsInput{MaxDailyRoundup: int64p(-5)})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestLinkBankAccountValidatesType(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	svc := &SettingsService{
		Settings: &fakeSettingsRepo{st: st},
		Accounts: &fakeBankAccountRepo{},
		Logger:   testLogger(),
	}

	_, err := svc.LinkBankAccount(context.Background(), 1, LinkBankAccountInput{
		AccountName: "Everyday", AccountType: "crypto",
	})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	a, err := svc.LinkBankAccount(context.Background(), 1, LinkBankAccountInput{
		AccountName: "Everyday", AccountType: "checking", BankName: "First Bank", LastFour: "4242",
	})
	require.NoError(t, err)
	assert.True(t, a.IsActive)
}
