package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourrightpocket/charityround/internal/container"
	handlers "github.com/yourrightpocket/charityround/internal/interface/http"
	"github.com/yourrightpocket/charityround/internal/interface/middleware"
	"github.com/yourrightpocket/charityround/pkg/helpers"
)

type SettingsModule struct {
	Handler *handlers.SettingsHandler
	JWT     *helpers.JWTManager
}

func NewSettingsModule(h *handlers.SettingsHandler, jwt *helpers.JWTManager) *SettingsModule {
	return &SettingsModule{Handler: h, JWT: jwt}
}

func (m *SettingsModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("/settings", m.Handler.Get)
		auth.PUT("/settings", m.Handler.Update)
		auth.POST("/bank-accounts", m.Handler.LinkBankAccount)
		auth.GET("/bank-accounts", m.Handler.BankAccounts)
	}
}
