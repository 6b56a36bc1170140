package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/application"
	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/internal/infrastructure/everyorg"
	"github.com/yourrightpocket/charityround/pkg/response"
)

type OrganizationHandler struct {
	Svc    *application.OrganizationService
	Logger *logrus.Logger
}

func NewOrganizationHandler(svc *application.OrganizationService, logger *logrus.Logger) *OrganizationHandler {
	return &OrganizationHandler{Svc: svc, Logger: logger}
}

func organizationPayload(o *entity.Organization) gin.H {
	return gin.H{
		"id":             o.ID,
		"name":           o.Name,
		"description":    o.Description,
		"category":       o.Category,
		"ein":            o.EIN,
		"website":        o.Website,
		"logo_url":       o.LogoURL,
		"verified":       o.Verified,
		"total_received": o.TotalReceived,
	}
}

func nonprofitPayload(np *everyorg.Nonprofit) gin.H {
	return gin.H{
		"name":              np.Name,
		"description":       np.Description,
		"ein":               np.EIN,
		"slug":              np.Slug,
		"location":          np.Location,
		"website_url":       np.WebsiteURL,
		"profile_url":       np.ProfileURL,
		"logo_url":          np.LogoURL,
		"cover_image_url":   np.CoverImageURL,
		"is_disbursable":    np.IsDisbursable,
		"ntee_code":         np.NTEECode,
		"ntee_code_meaning": np.NTEECodeMeaning,
		"tags":              np.Tags,
		"matched_terms":     np.MatchedTerms,
	}
}

func nonprofitListPayload(nps []everyorg.Nonprofit) []gin.H {
	out := make([]gin.H, 0, len(nps))
	for i := range nps {
		out = append(out, nonprofitPayload(&nps[i]))
	}
	return out
}

// Search proxies a free-text directory search.
func (h *OrganizationHandler) Search(c *gin.Context) {
	take, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	results, err := h.Svc.Search(c.Request.Context(), c.Query("q"), take)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, nonprofitListPayload(results), "search results", gin.H{"total": len(results)})
}

// Browse lists directory nonprofits under a cause slug.
func (h *OrganizationHandler) Browse(c *gin.Context) {
	take, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	results, err := h.Svc.Browse(c.Request.Context(), c.Param("cause"), take, page)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, nonprofitListPayload(results), "browse results", gin.H{"page": page})
}

func (h *OrganizationHandler) NonprofitDetails(c *gin.Context) {
	np, err := h.Svc.NonprofitDetails(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, nonprofitPayload(np), "nonprofit details", nil)
}

func (h *OrganizationHandler) Causes(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Svc.Causes(), "causes", nil)
}

func (h *OrganizationHandler) Categories(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Svc.Categories(), "categories", nil)
}

type syncRequest struct {
	Identifier string `json:"identifier" binding:"required"` // slug, EIN or Every.org id
}

// Sync pulls a directory nonprofit into the local verified catalog.
func (h *OrganizationHandler) Sync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	org, err := h.Svc.SyncFromDirectory(c.Request.Context(), req.Identifier)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, organizationPayload(org), "organization synced", nil)
}

func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.Svc.ListVerified(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	payload := make([]gin.H, 0, len(orgs))
	for i := range orgs {
		payload = append(payload, organizationPayload(&orgs[i]))
	}
	response.Success(c, http.StatusOK, payload, "organizations", nil)
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid organization id", nil)
		return
	}
	org, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, organizationPayload(org), "organization", nil)
}

func (h *OrganizationHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"total_organizations": stats.TotalOrganizations,
		"total_donations":     stats.TotalDonations,
		"average_donations":   stats.AverageDonations,
	}, "organization stats", nil)
}
