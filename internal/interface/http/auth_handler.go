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

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userPayload(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"phone":      u.Phone,
		"created_at": u.CreatedAt,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, userPayload(u), "registered", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":  userPayload(u),
		"token": token,
	}, "login successful", gin.H{"expires_at": exp})
}

// Verify confirms the bearer token is still good. The middleware has
// already parsed it, so this just echoes the claims back.
func (h *AuthHandler) Verify(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"user_id": middleware.UserID(c),
		"email":   c.GetString(middleware.CtxEmailKey),
		"valid":   true,
	}, "token valid", nil)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	p, err := h.Svc.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user": userPayload(&p.User),
		"balance": gin.H{
			"current_balance":   p.Balance.CurrentBalance,
			"total_accumulated": p.Balance.TotalAccumulated,
			"total_donated":     p.Balance.TotalDonated,
			"last_updated":      p.Balance.LastUpdated,
		},
		"settings": settingsPayload(&p.Settings),
	}, "profile", nil)
}

func (h *AuthHandler) Deactivate(c *gin.Context) {
	if err := h.Svc.Deactivate(c.Request.Context(), middleware.UserID(c)); err != nil {
		response.Err(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deactivated": true}, "account deactivated", nil)
}
