package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/application"
	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/internal/interface/middleware"
	"github.com/yourrightpocket/charityround/pkg/money"
	"github.com/yourrightpocket/charityround/pkg/response"
	"github.com/yourrightpocket/charityround/pkg/validation"
)

type DonationHandler struct {
	Svc    *application.LedgerService
	Logger *logrus.Logger
}

func NewDonationHandler(svc *application.LedgerService, logger *logrus.Logger) *DonationHandler {
	return &DonationHandler{Svc: svc, Logger: logger}
}

// EIN is deliberately unvalidated here: an EIN that matches nothing
// must come back as an unresolvable-organization error, not a 400.
type donateRequest struct {
	OrganizationID int64  `json:"organization_id"`
	EIN            string `json:"ein"`
	Amount         string `json:"amount" binding:"required"` // decimal dollars
}

func donationPayload(d *entity.Donation) gin.H {
	return gin.H{
		"id":              d.ID,
		"organization_id": d.OrganizationID,
		"amount":          d.Amount,
		"status":          d.Status,
		"created_at":      d.CreatedAt,
		"completed_at":    d.CompletedAt,
	}
}

func donationDetailPayload(d *entity.DonationDetail) gin.H {
	p := donationPayload(&d.Donation)
	p["organization"] = gin.H{
		"name":     d.OrganizationName,
		"ein":      d.OrganizationEIN,
		"logo_url": d.LogoURL,
		"website":  d.WebsiteURL,
		"category": d.Category,
	}
	return p
}

func (h *DonationHandler) Donate(c *gin.Context) {
	var req donateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cents, err := money.ParseDecimalToCents(req.Amount)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "amount must be a positive decimal", nil)
		return
	}
	d, err := h.Svc.Donate(c.Request.Context(), middleware.UserID(c), application.DonateInput{
		OrganizationID: req.OrganizationID,
		EIN:            req.EIN,
		Amount:         cents,
	})
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, donationPayload(d), "donation completed", nil)
}

// AutoDonate triggers an immediate disbursement check for the caller.
func (h *DonationHandler) AutoDonate(c *gin.Context) {
	donations, err := h.Svc.AutoDonate(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	payload := make([]gin.H, 0, len(donations))
	for i := range donations {
		payload = append(payload, donationPayload(&donations[i]))
	}
	msg := "balance disbursed"
	if len(donations) == 0 {
		msg = "balance below threshold"
	}
	response.Success(c, http.StatusOK, payload, msg, nil)
}

func (h *DonationHandler) Refund(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid donation id", nil)
		return
	}
	d, err := h.Svc.Refund(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, donationPayload(d), "donation refunded", nil)
}

func (h *DonationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid donation id", nil)
		return
	}
	d, err := h.Svc.Donation(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, donationDetailPayload(d), "donation", nil)
}

func (h *DonationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	donations, total, err := h.Svc.ListDonations(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	payload := make([]gin.H, 0, len(donations))
	for i := range donations {
		payload = append(payload, donationDetailPayload(&donations[i]))
	}
	response.Success(c, http.StatusOK, payload, "donations", gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *DonationHandler) Stats(c *gin.Context) {
	summary, err := h.Svc.DonationStats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	monthly := make([]gin.H, 0, len(summary.Monthly))
	for _, m := range summary.Monthly {
		monthly = append(monthly, gin.H{
			"month":          m.Month,
			"donation_count": m.DonationCount,
			"total_amount":   m.TotalAmount,
		})
	}
	top := make([]gin.H, 0, len(summary.Top))
	for _, t := range summary.Top {
		top = append(top, gin.H{
			"organization_name": t.OrganizationName,
			"organization_ein":  t.OrganizationEIN,
			"logo_url":          t.LogoURL,
			"donation_count":    t.DonationCount,
			"total_donated":     t.TotalDonated,
		})
	}
	response.Success(c, http.StatusOK, gin.H{
		"totals": gin.H{
			"total_donations":     summary.Stats.TotalDonations,
			"total_amount":        summary.Stats.TotalAmount,
			"average_amount":      summary.Stats.AverageAmount,
			"completed_donations": summary.Stats.CompletedDonations,
			"completed_amount":    summary.Stats.CompletedAmount,
		},
		"monthly":           monthly,
		"top_organizations": top,
	}, "donation stats", nil)
}
