package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourrightpocket/charityround/pkg/apperrors"
	"github.com/yourrightpocket/charityround/pkg/helpers"
	"github.com/yourrightpocket/charityround/pkg/money"
)

func newAuthService(st *fakeStore) *AuthService {
	return &AuthService{
		Users:  &fakeUserRepo{st: st},
		JWT:    helpers.NewJWTManager("test-secret", time.Hour),
		Logger: testLogger(),
	}
}

func TestRegisterProvisionsLedger(t *testing.T) {
	st := newFakeStore()
	svc := newAuthService(st)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:     "  Alex@Example.com ",
		Password:  "hunter2hunter2",
		FirstName: "Alex",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", u.Email)
	assert.NotEqual(t, "hunter2hunter2", u.Password)

	profile, err := svc.Profile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), profile.Balance.CurrentBalance)
	assert.True(t, profile.Settings.RoundUpEnabled)
	assert.Equal(t, money.Cents(500), profile.Settings.AutoDonateThreshold)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	st := newFakeStore()
	svc := newAuthService(st)

	in := RegisterInput{Email: "alex@example.com", Password: "hunter2hunter2", FirstName: "Alex"}
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), in)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestLoginIssuesToken(t *testing.T) {
	st := newFakeStore()
	svc := newAuthService(st)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "alex@example.com", Password: "hunter2hunter2", FirstName: "Alex",
	})
	require.NoError(t, err)

	u, token, exp, err := svc.Login(context.Background(), "alex@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.JWT.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "alex@example.com", claims.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	st := newFakeStore()
	svc := newAuthService(st)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "alex@example.com", Password: "hunter2hunter2", FirstName: "Alex",
	})
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "alex@example.com", "wrong-password")
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))

	_, _, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter2hunter2")
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
}

func TestLoginRejectsDeactivatedUser(t *testing.T) {
	st := newFakeStore()
	svc := newAuthService(st)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email: "alex@example.com", Password: "hunter2hunter2", FirstName: "Alex",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), u.ID))

	_, _, _, err = svc.Login(context.Background(), "alex@example.com", "hunter2hunter2")
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
}
