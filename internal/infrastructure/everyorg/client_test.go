package everyorg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 2*time.Second)
}

func TestSearchMapsResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/red%20cross", r.URL.EscapedPath())
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "5", r.URL.Query().Get("take"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"nonprofits":[
			{"name":"American Red Cross","ein":"530196605","slug":"redcross",
			 "profileUrl":"https://www.every.org/redcross","matchedTerms":["red","cross"]}
		]}`))
	})

	results, err := c.Search(context.Background(), "red cross", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "American Red Cross", results[0].Name)
	assert.Equal(t, "530196605", results[0].EIN)
	assert.Equal(t, []string{"red", "cross"}, results[0].MatchedTerms)
}

func TestGetNonprofitDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nonprofit/530196605", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"nonprofit":{
			"name":"American Red Cross","ein":"530196605","primarySlug":"redcross",
			"locationAddress":"Washington, DC","isDisbursable":true,
			"nteeCode":"P12","nteeCodeMeaning":"Fund Raising",
			"nonprofitTags":[{"tagName":"disaster-relief","causeCategory":"humans","title":"Disaster Relief"}]
		}}}`))
	})

	np, err := c.GetNonprofit(context.Background(), "530196605")
	require.NoError(t, err)
	assert.Equal(t, "redcross", np.Slug)
	assert.Equal(t, "Washington, DC", np.Location)
	assert.Equal(t, "Fund Raising", np.NTEECodeMeaning)
	assert.True(t, np.IsDisbursable)
	assert.Equal(t, []string{"disaster-relief"}, np.Tags)
}

func TestGetNonprofitNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := c.GetNonprofit(context.Background(), "does-not-exist")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestServerErrorIsDirectoryUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.Browse(context.Background(), "education", 10, 1)
	assert.Equal(t, apperrors.KindDirectoryUnavailable, apperrors.KindOf(err))
}

func TestMapCategory(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want entity.Category
	}{
		{"education wins", []string{"education", "health"}, entity.CategoryEducation},
		{"health", []string{"HEALTH"}, entity.CategoryHealthcare},
		{"healthcare alias", []string{"healthcare"}, entity.CategoryHealthcare},
		{"environment", []string{"environment"}, entity.CategoryEnvironment},
		{"animals fold to community", []string{"animals"}, entity.CategoryCommunity},
		{"humans fold to community", []string{"humans"}, entity.CategoryCommunity},
		{"unmapped", []string{"arts", "religion"}, entity.CategoryOther},
		{"empty", nil, entity.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapCategory(tt.tags))
		})
	}
}
