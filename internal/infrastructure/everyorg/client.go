// Package everyorg is a thin typed client for the Every.org partner
// API, which backs the charity directory.
package everyorg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yourrightpocket/charityround/pkg/apperrors"
)

// Nonprofit is the directory view of a charity as Every.org returns it.
// Search results carry MatchedTerms, browse results carry Tags; the
// details endpoint fills everything.
type Nonprofit struct {
	Name            string
	Description     string
	EIN             string
	Slug            string
	Location        string
	WebsiteURL      string
	ProfileURL      string
	LogoURL         string
	CoverImageURL   string
	IsDisbursable   bool
	NTEECode        string
	NTEECodeMeaning string
	Tags            []string
	MatchedTerms    []string
}

// Causes are the browseable cause slugs the partner API accepts.
func Causes() []string {
	return []string{
		"animals", "arts", "civil", "education", "environment",
		"health", "humans", "international", "religion", "research",
	}
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// wire shapes

type nonprofitTag struct {
	TagName       string `json:"tagName"`
	CauseCategory string `json:"causeCategory"`
	Title         string `json:"title"`
}

type wireNonprofit struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	EIN             string          `json:"ein"`
	Slug            string          `json:"slug"`
	PrimarySlug     string          `json:"primarySlug"`
	Location        string          `json:"location"`
	LocationAddress string          `json:"locationAddress"`
	WebsiteURL      string          `json:"websiteUrl"`
	ProfileURL      string          `json:"profileUrl"`
	LogoURL         string          `json:"logoUrl"`
	CoverImageURL   string          `json:"coverImageUrl"`
	IsDisbursable   bool            `json:"isDisbursable"`
	NTEECode        string          `json:"nteeCode"`
	NTEECodeMeaning json.RawMessage `json:"nteeCodeMeaning"`
	Tags            []string        `json:"tags"`
	MatchedTerms    []string        `json:"matchedTerms"`
	NonprofitTags   []nonprofitTag  `json:"nonprofitTags"`
}

func (w wireNonprofit) toNonprofit() Nonprofit {
	np := Nonprofit{
		Name:          w.Name,
		Description:   w.Description,
		EIN:           w.EIN,
		Slug:          w.Slug,
		Location:      w.Location,
		WebsiteURL:    w.WebsiteURL,
		ProfileURL:    w.ProfileURL,
		LogoURL:       w.LogoURL,
		CoverImageURL: w.CoverImageURL,
		IsDisbursable: w.IsDisbursable,
		NTEECode:      w.NTEECode,
		Tags:          w.Tags,
		MatchedTerms:  w.MatchedTerms,
	}
	if np.Slug == "" {
		np.Slug = w.PrimarySlug
	}
	if np.Location == "" {
		np.Location = w.LocationAddress
	}
	// nteeCodeMeaning is sometimes a plain string, sometimes an object.
	var meaning string
	if err := json.Unmarshal(w.NTEECodeMeaning, &meaning); err == nil {
		np.NTEECodeMeaning = meaning
	}
	for _, t := range w.NonprofitTags {
		np.Tags = append(np.Tags, t.TagName)
	}
	return np
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.DirectoryUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NotFound("organization not found in directory")
	}
	if resp.StatusCode != http.StatusOK {
		return apperrors.DirectoryUnavailable(fmt.Errorf("directory returned %s", resp.Status))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.DirectoryUnavailable(fmt.Errorf("decode directory response: %w", err))
	}
	return nil
}

// GetNonprofit looks up a single nonprofit by slug, EIN or Every.org ID.
func (c *Client) GetNonprofit(ctx context.Context, identifier string) (*Nonprofit, error) {
	var body struct {
		Data struct {
			Nonprofit wireNonprofit `json:"nonprofit"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/nonprofit/"+url.PathEscape(identifier), nil, &body); err != nil {
		return nil, err
	}
	np := body.Data.Nonprofit.toNonprofit()
	return &np, nil
}

// Search runs a free-text nonprofit search.
func (c *Client) Search(ctx context.Context, term string, take int) ([]Nonprofit, error) {
	if take <= 0 {
		take = 20
	}
	var body struct {
		Nonprofits []wireNonprofit `json:"nonprofits"`
	}
	params := url.Values{"take": {strconv.Itoa(take)}}
	if err := c.get(ctx, "/search/"+url.PathEscape(term), params, &body); err != nil {
		return nil, err
	}
	results := make([]Nonprofit, 0, len(body.Nonprofits))
	for _, w := range body.Nonprofits {
		results = append(results, w.toNonprofit())
	}
	return results, nil
}

// Browse lists nonprofits under one of the Causes slugs.
func (c *Client) Browse(ctx context.Context, cause string, take, page int) ([]Nonprofit, error) {
	if take <= 0 {
		take = 20
	}
	if page <= 0 {
		page = 1
	}
	var body struct {
		Nonprofits []wireNonprofit `json:"nonprofits"`
	}
	params := url.Values{"take": {strconv.Itoa(take)}, "page": {strconv.Itoa(page)}}
	if err := c.get(ctx, "/browse/"+url.PathEscape(cause), params, &body); err != nil {
		return nil, err
	}
	results := make([]Nonprofit, 0, len(body.Nonprofits))
	for _, w := range body.Nonprofits {
		results = append(results, w.toNonprofit())
	}
	return results, nil
}
