package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourrightpocket/charityround/internal/container"
	handlers "github.com/yourrightpocket/charityround/internal/interface/http"
	"github.com/yourrightpocket/charityround/internal/interface/middleware"
	"github.com/yourrightpocket/charityround/pkg/helpers"
)

// OrganizationModule wires the charity directory routes: the local
// verified catalog, the Every.org proxy, likes and allocations.
type OrganizationModule struct {
	Organizations *handlers.OrganizationHandler
	Liked         *handlers.UserOrganizationHandler
	JWT           *helpers.JWTManager
}

func NewOrganizationModule(o *handlers.OrganizationHandler, l *handlers.UserOrganizationHandler, jwt *helpers.JWTManager) *OrganizationModule {
	return &OrganizationModule{Organizations: o, Liked: l, JWT: jwt}
}

func (m *OrganizationModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		// Local catalog
		auth.GET("/organizations", m.Organizations.List)
		auth.GET("/organizations/stats", m.Organizations.Stats)
		auth.GET("/organizations/categories", m.Organizations.Categories)
		auth.GET("/organizations/:id", m.Organizations.Get)
		auth.POST("/organizations/sync", m.Organizations.Sync)

		// Every.org proxy
		auth.GET("/directory/search", m.Organizations.Search)
		auth.GET("/directory/browse/:cause", m.Organizations.Browse)
		auth.GET("/directory/causes", m.Organizations.Causes)
		auth.GET("/directory/nonprofit/:identifier", m.Organizations.NonprofitDetails)

		// Likes and allocations
		auth.POST("/me/organizations", m.Liked.Like)
		auth.GET("/me/organizations", m.Liked.List)
		auth.GET("/me/organizations/:ein/liked", m.Liked.IsLiked)
		auth.DELETE("/me/organizations/:ein", m.Liked.Unlike)
		auth.POST("/me/allocations", m.Liked.SetAllocation)
		auth.GET("/me/allocations", m.Liked.Allocations)
		auth.DELETE("/me/allocations/:ein", m.Liked.DeactivateAllocation)
	}
}
