package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourrightpocket/charityround/pkg/apperrors"
)

func newLikedService(st *fakeStore) *LikedOrganizationService {
	return &LikedOrganizationService{
		Liked:  &fakeUserOrganizationRepo{st: st},
		Orgs:   &fakeOrganizationRepo{st: st},
		Prefs:  &fakePreferenceRepo{st: st},
		Logger: testLogger(),
	}
}

func redCross() LikeInput {
	return LikeInput{
		EIN:  "530196605",
		Name: "American Red Cross",
		Tags: []string{"health", "disaster-relief"},
	}
}

func TestLikeAndList(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	svc := newLikedService(st)

	uo, err := svc.Like(context.Background(), 1, redCross())
	require.NoError(t, err)
	assert.NotZero(t, uo.ID)
	assert.False(t, uo.LikedAt.IsZero())

	liked, err := svc.IsLiked(context.Background(), 1, "530196605")
	require.NoError(t, err)
	assert.True(t, liked)

	list, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLikeTwiceConflicts(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	svc := newLikedService(st)

	_, err := svc.Like(context.Background(), 1, redCross())
	require.NoError(t, err)

	_, err = svc.Like(context.Background(), 1, redCross())
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestLikeRequiresEINAndName(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	svc := newLikedService(st)

	_, err := svc.Like(context.Background(), 1, LikeInput{Name: "No EIN"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Like(context.Background(), 1, LikeInput{EIN: "530196605"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestUnlikeUnknownEIN(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	svc := newLikedService(st)

	err := svc.Unlike(context.Background(), 1, "999999999")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSetAllocationCreatesCanonicalOrganization(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	svc := newLikedService(st)

	_, err := svc.Like(context.Background(), 1, redCross())
	require.NoError(t, err)

	p, err := svc.SetAllocation(context.Background(), 1, "530196605", 6000)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), p.Percent)
	assert.True(t, p.IsActive)

	org, err := svc.Orgs.GetByEIN(context.Background(), "530196605")
	require.NoError(t, err)
	assert.Equal(t, org.ID, p.OrganizationID)
	assert.True(t, org.Verified)
}

func TestSetAllocationRequiresLike(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	svc := newLikedService(st)

	_, err := svc.SetAllocation(context.Background(), 1, "530196605", 6000)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestSetAllocationOverflow(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	svc := newLikedService(st)

	_, err := svc.Like(context.Background(), 1, redCross())
	require.NoError(t, err)
	_, err = svc.Like(context.Background(), 1, LikeInput{EIN: "111111111", Name: "Clean Water Fund"})
	require.NoError(t, err)

	_, err = svc.SetAllocation(context.Background(), 1, "530196605", 6000)
	require.NoError(t, err)

	_, err = svc.SetAllocation(context.Background(), 1, "111111111", 5000)
	assert.Equal(t, apperrors.KindAllocationOverflow, apperrors.KindOf(err))

	// Re-pointing an existing allocation replaces its own weight.
	_, err = svc.SetAllocation(context.Background(), 1, "530196605", 7000)
	require.NoError(t, err)
}

func TestUnlikeDeactivatesAllocation(t *testing.T) {
	st := newFakeStore()
	st.addUser(1)
	svc := newLikedService(st)

	_, err := svc.Like(context.Background(), 1, redCross())
	require.NoError(t, err)
	p, err := svc.SetAllocation(context.Background(), 1, "530196605", 6000)
	require.NoError(t, err)

	require.NoError(t, svc.Unlike(context.Background(), 1, "530196605"))

	active, err := svc.ActiveAllocations(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.Allocations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, p.OrganizationID, all[0].OrganizationID)
	assert.False(t, all[0].IsActive)
}
