package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/application"
	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/internal/interface/middleware"
	"github.com/yourrightpocket/charityround/pkg/response"
	"github.com/yourrightpocket/charityround/pkg/validation"
)

type UserOrganizationHandler struct {
	Svc    *application.LikedOrganizationService
	Logger *logrus.Logger
}

func NewUserOrganizationHandler(svc *application.LikedOrganizationService, logger *logrus.Logger) *UserOrganizationHandler {
	return &UserOrganizationHandler{Svc: svc, Logger: logger}
}

type likeRequest struct {
	EIN             string   `json:"ein" binding:"required,ein"`
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	WebsiteURL      string   `json:"website_url"`
	LogoURL         string   `json:"logo_url"`
	ProfileURL      string   `json:"profile_url"`
	Slug            string   `json:"slug"`
	Location        string   `json:"location"`
	NTEECode        string   `json:"ntee_code"`
	NTEECodeMeaning string   `json:"ntee_code_meaning"`
	IsDisbursable   bool     `json:"is_disbursable"`
	Tags            []string `json:"tags"`
	MatchedTerms    []string `json:"matched_terms"`
}

func likedPayload(uo *entity.UserOrganization) gin.H {
	return gin.H{
		"id":                uo.ID,
		"ein":               uo.EIN,
		"name":              uo.Name,
		"description":       uo.Description,
		"website_url":       uo.WebsiteURL,
		"logo_url":          uo.LogoURL,
		"profile_url":       uo.ProfileURL,
		"slug":              uo.Slug,
		"location":          uo.Location,
		"ntee_code":         uo.NTEECode,
		"ntee_code_meaning": uo.NTEECodeMeaning,
		"is_disbursable":    uo.IsDisbursable,
		"tags":              uo.Tags,
		"matched_terms":     uo.MatchedTerms,
		"liked_at":          uo.LikedAt,
	}
}

func (h *UserOrganizationHandler) Like(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uo, err := h.Svc.Like(c.Request.Context(), middleware.UserID(c), application.LikeInput{
		EIN:             req.EIN,
		Name:            req.Name,
		Description:     req.Description,
		WebsiteURL:      req.WebsiteURL,
		LogoURL:         req.LogoURL,
		ProfileURL:      req.ProfileURL,
		Slug:            req.Slug,
		Location:        req.Location,
		NTEECode:        req.NTEECode,
		NTEECodeMeaning: req.NTEECodeMeaning,
		IsDisbursable:   req.IsDisbursable,
		Tags:            req.Tags,
		MatchedTerms:    req.MatchedTerms,
	})
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, likedPayload(uo), "organization liked", nil)
}

func (h *UserOrganizationHandler) Unlike(c *gin.Context) {
	if err := h.Svc.Unlike(c.Request.Context(), middleware.UserID(c), c.Param("ein")); err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"unliked": true}, "organization unliked", nil)
}

func (h *UserOrganizationHandler) List(c *gin.Context) {
	liked, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	payload := make([]gin.H, 0, len(liked))
	for i := range liked {
		payload = append(payload, likedPayload(&liked[i]))
	}
	response.Success(c, http.StatusOK, payload, "liked organizations", nil)
}

func (h *UserOrganizationHandler) IsLiked(c *gin.Context) {
	liked, err := h.Svc.IsLiked(c.Request.Context(), middleware.UserID(c), c.Param("ein"))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"liked": liked}, "like status", nil)
}

type allocationRequest struct {
	EIN     string `json:"ein" binding:"required,ein"`
	Percent int64  `json:"percent" binding:"required,min=1,max=10000"` // hundredths of a percent
}

func allocationPayload(p *entity.Preference) gin.H {
	return gin.H{
		"id":              p.ID,
		"organization_id": p.OrganizationID,
		"percent":         p.Percent,
		"is_active":       p.IsActive,
		"created_at":      p.CreatedAt,
	}
}

func (h *UserOrganizationHandler) SetAllocation(c *gin.Context) {
	var req allocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.SetAllocation(c.Request.Context(), middleware.UserID(c), req.EIN, req.Percent)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, allocationPayload(p), "allocation set", nil)
}

func (h *UserOrganizationHandler) DeactivateAllocation(c *gin.Context) {
	if err := h.Svc.DeactivateAllocation(c.Request.Context(), middleware.UserID(c), c.Param("ein")); err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deactivated": true}, "allocation deactivated", nil)
}

func (h *UserOrganizationHandler) Allocations(c *gin.Context) {
	prefs, err := h.Svc.Allocations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	payload := make([]gin.H, 0, len(prefs))
	for i := range prefs {
		payload = append(payload, allocationPayload(&prefs[i]))
	}
	response.Success(c, http.StatusOK, payload, "allocations", nil)
}
