package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourrightpocket/charityround/internal/container"
	handlers "github.com/yourrightpocket/charityround/internal/interface/http"
	"github.com/yourrightpocket/charityround/internal/interface/middleware"
	"github.com/yourrightpocket/charityround/pkg/helpers"
)

// LedgerModule wires the money-flow routes: balance, transactions,
// donations and the dashboard.
type LedgerModule struct {
	Transactions *handlers.TransactionHandler
	Donations    *handlers.DonationHandler
	Dashboard    *handlers.DashboardHandler
	JWT          *helpers.JWTManager
}

func NewLedgerModule(t *handlers.TransactionHandler, d *handlers.DonationHandler, dash *handlers.DashboardHandler, jwt *helpers.JWTManager) *LedgerModule {
	return &LedgerModule{Transactions: t, Donations: d, Dashboard: dash, JWT: jwt}
}

func (m *LedgerModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("/balance", m.Transactions.Balance)
		auth.POST("/transactions", m.Transactions.Ingest)
		auth.GET("/transactions", m.Transactions.List)

		auth.POST("/donations", m.Donations.Donate)
		auth.POST("/donations/auto", m.Donations.AutoDonate)
		auth.GET("/donations", m.Donations.List)
		auth.GET("/donations/stats", m.Donations.Stats)
		auth.GET("/donations/:id", m.Donations.Get)
		auth.POST("/donations/:id/refund", m.Donations.Refund)

		auth.GET("/dashboard", m.Dashboard.View)
		auth.GET("/dashboard/impact", m.Dashboard.Impact)
		auth.GET("/dashboard/activity", m.Dashboard.Activity)
		auth.GET("/dashboard/suggestions", m.Dashboard.Suggestions)
		auth.GET("/dashboard/goals", m.Dashboard.Goals)
		auth.GET("/dashboard/updates", m.Dashboard.Updates)
	}
}
