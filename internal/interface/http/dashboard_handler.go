package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/application"
	"github.com/yourrightpocket/charityround/internal/interface/middleware"
	"github.com/yourrightpocket/charityround/pkg/response"
)

type DashboardHandler struct {
	Svc    *application.DashboardService
	Logger *logrus.Logger
}

func NewDashboardHandler(svc *application.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Logger: logger}
}

func (h *DashboardHandler) View(c *gin.Context) {
	view, err := h.Svc.View(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}

	daily := make([]gin.H, 0, len(view.DailyRoundups))
	for _, d := range view.DailyRoundups {
		daily = append(daily, gin.H{
			"date":    d.Day.Format("2006-01-02"),
			"roundup": d.Roundup,
		})
	}
	updates := make([]gin.H, 0, len(view.Updates))
	for _, u := range view.Updates {
		updates = append(updates, gin.H{
			"organization_name": u.OrganizationName,
			"logo_url":          u.LogoURL,
			"category":          u.Category,
			"total_donated":     u.TotalDonated,
			"last_donated_at":   u.LastDonatedAt,
		})
	}
	suggestions := make([]gin.H, 0, len(view.Suggestions))
	for i := range view.Suggestions {
		suggestions = append(suggestions, organizationPayload(&view.Suggestions[i]))
	}
	impact := make([]gin.H, 0, len(view.Impact))
	for _, m := range view.Impact {
		impact = append(impact, gin.H{
			"organization_id": m.OrganizationID,
			"metric_name":     m.MetricName,
			"metric_value":    m.MetricValue,
			"unit":            m.Unit,
			"description":     m.Description,
		})
	}

	response.Success(c, http.StatusOK, gin.H{
		"balance": gin.H{
			"current_balance":   view.Balance.CurrentBalance,
			"total_accumulated": view.Balance.TotalAccumulated,
			"total_donated":     view.Balance.TotalDonated,
		},
		"auto_donate": gin.H{
			"threshold": view.Settings.AutoDonateThreshold,
			"enabled":   view.Settings.AutoDonateThreshold > 0,
		},
		"monthly_progress": gin.H{
			"donated":   view.Monthly.MonthlyDonated,
			"donations": view.Monthly.MonthlyDonations,
		},
		"daily_roundups":  daily,
		"charity_updates": updates,
		"suggestions":     suggestions,
		"impact_metrics":  impact,
	}, "dashboard", nil)
}

func (h *DashboardHandler) Suggestions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	orgs, err := h.Svc.Suggestions(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(orgs))
	for i := range orgs {
		out = append(out, organizationPayload(&orgs[i]))
	}
	response.Success(c, http.StatusOK, out, "charity suggestions", nil)
}

func (h *DashboardHandler) Updates(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	updates, err := h.Svc.Updates(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(updates))
	for _, u := range updates {
		out = append(out, gin.H{
			"organization_name": u.OrganizationName,
			"logo_url":          u.LogoURL,
			"category":          u.Category,
			"total_donated":     u.TotalDonated,
			"last_donated_at":   u.LastDonatedAt,
		})
	}
	response.Success(c, http.StatusOK, out, "charity updates", nil)
}

func (h *DashboardHandler) Goals(c *gin.Context) {
	goals, err := h.Svc.Goals(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	daily := make([]gin.H, 0, len(goals.DailyRoundups))
	for _, d := range goals.DailyRoundups {
		daily = append(daily, gin.H{
			"date":    d.Day.Format("2006-01-02"),
			"roundup": d.Roundup,
		})
	}
	var progress float64
	if goals.Threshold > 0 {
		progress = float64(goals.Balance.CurrentBalance) / float64(goals.Threshold)
		if progress > 1 {
			progress = 1
		}
	}
	response.Success(c, http.StatusOK, gin.H{
		"current_balance":     goals.Balance.CurrentBalance,
		"threshold":           goals.Threshold,
		"auto_donate_enabled": goals.Threshold > 0,
		"progress":            progress,
		"monthly_progress": gin.H{
			"donated":   goals.Monthly.MonthlyDonated,
			"donations": goals.Monthly.MonthlyDonations,
		},
		"daily_roundups": daily,
	}, "goals progress", nil)
}

func (h *DashboardHandler) Impact(c *gin.Context) {
	impact, err := h.Svc.Impact(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	metrics := make([]gin.H, 0, len(impact.Metrics))
	for _, m := range impact.Metrics {
		metrics = append(metrics, gin.H{
			"organization_id": m.OrganizationID,
			"metric_name":     m.MetricName,
			"metric_value":    m.MetricValue,
			"unit":            m.Unit,
			"description":     m.Description,
		})
	}
	response.Success(c, http.StatusOK, gin.H{
		"total_donated":     impact.Balance.TotalDonated,
		"total_accumulated": impact.Balance.TotalAccumulated,
		"metrics":           metrics,
	}, "impact overview", nil)
}

func (h *DashboardHandler) Activity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	activity, err := h.Svc.Activity(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	donations := make([]gin.H, 0, len(activity.Donations))
	for i := range activity.Donations {
		donations = append(donations, donationDetailPayload(&activity.Donations[i]))
	}
	txns := make([]gin.H, 0, len(activity.Transactions))
	for i := range activity.Transactions {
		txns = append(txns, transactionPayload(&activity.Transactions[i]))
	}
	response.Success(c, http.StatusOK, gin.H{
		"donations":    donations,
		"transactions": txns,
	}, "recent activity", nil)
}
