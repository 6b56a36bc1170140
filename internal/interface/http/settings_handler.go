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

type SettingsHandler struct {
	Svc    *application.SettingsService
	Logger *logrus.Logger
}

func NewSettingsHandler(svc *application.SettingsService, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{Svc: svc, Logger: logger}
}

func settingsPayload(s *entity.Settings) gin.H {
	return gin.H{
		"auto_donate_threshold": s.AutoDonateThreshold,
		"round_up_enabled":      s.RoundUpEnabled,
		"max_daily_roundup":     s.MaxDailyRoundup,
		"notification_email":    s.NotificationEmail,
		"notification_push":     s.NotificationPush,
		"updated_at":            s.UpdatedAt,
	}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, settingsPayload(s), "settings", nil)
}

type updateSettingsRequest struct {
	AutoDonateThreshold *int64 `json:"auto_donate_threshold"`
	RoundUpEnabled      *bool  `json:"round_up_enabled"`
	MaxDailyRoundup     *int64 `json:"max_daily_roundup"`
	NotificationEmail   *bool  `json:"notification_email"`
	NotificationPush    *bool  `json:"notification_push"`
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	s, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), application.UpdateSettingsInput{
		AutoDonateThreshold: req.AutoDonateThreshold,
		RoundUpEnabled:      req.RoundUpEnabled,
		MaxDailyRoundup:     req.MaxDailyRoundup,
		NotificationEmail:   req.NotificationEmail,
		NotificationPush:    req.NotificationPush,
	})
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, settingsPayload(s), "settings updated", nil)
}

type linkBankAccountRequest struct {
	ExternalAccountID string `json:"external_account_id"`
	AccountName       string `json:"account_name" binding:"required"`
	AccountType       string `json:"account_type" binding:"required"`
	BankName          string `json:"bank_name" binding:"required"`
	LastFour          string `json:"last_four" binding:"required,len=4,numeric"`
	IsPrimary         bool   `json:"is_primary"`
}

func (h *SettingsHandler) LinkBankAccount(c *gin.Context) {
	var req linkBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.LinkBankAccount(c.Request.Context(), middleware.UserID(c), application.LinkBankAccountInput{
		ExternalAccountID: req.ExternalAccountID,
		AccountName:       req.AccountName,
		AccountType:       req.AccountType,
		BankName:          req.BankName,
		LastFour:          req.LastFour,
		IsPrimary:         req.IsPrimary,
	})
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, bankAccountPayload(a), "bank account linked", nil)
}

func bankAccountPayload(a *entity.BankAccount) gin.H {
	return gin.H{
		"id":           a.ID,
		"account_name": a.AccountName,
		"account_type": a.AccountType,
		"bank_name":    a.BankName,
		"last_four":    a.LastFour,
		"is_primary":   a.IsPrimary,
		"created_at":   a.CreatedAt,
	}
}

func (h *SettingsHandler) BankAccounts(c *gin.Context) {
	accounts, err := h.Svc.BankAccounts(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	payload := make([]gin.H, 0, len(accounts))
	for i := range accounts {
		payload = append(payload, bankAccountPayload(&accounts[i]))
	}
	response.Success(c, http.StatusOK, payload, "bank accounts", nil)
}
