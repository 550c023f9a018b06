package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/handler"
	"github.com/ovale/guia-negocios/internal/middleware"
	"github.com/ovale/guia-negocios/internal/model"
)

// RegisterBusinesses registers /api/businesses.  Browsing and search are
// public; creation and management require a bearer token (ownership is
// checked in the handler so admins can manage any listing).  The dashboard
// reads are admin only.
func RegisterBusinesses(e *echo.Echo, h *handler.BusinessHandler, protect echo.MiddlewareFunc, public ...echo.MiddlewareFunc) {
	g := e.Group("/api/businesses")
	g.GET("", h.List, public...)
	g.GET("/search", h.Search, public...)
	g.GET("/latest", h.Latest, public...)
	g.GET("/by-date", h.ByDate, public...)
	g.GET("/slug/:slug", h.GetBySlug, public...)
	// Static segments win over :id in the router, so /latest and friends
	// stay reachable.
	g.GET("/:id", h.GetByID, public...)

	dash := e.Group("/api/businesses/dashboard", protect, middleware.RequireRole(model.RoleAdmin))
	dash.GET("/stats", h.Stats)
	dash.GET("/recent-businesses", h.Recent)

	owned := e.Group("/api/businesses", protect, middleware.RequireRole(model.RoleOwner, model.RoleAdmin))
	owned.POST("", h.Create)
	owned.PUT("/:id", h.Update)
	owned.DELETE("/:id", h.Delete)
	owned.DELETE("/:id/photos", h.DeletePhoto)
}

// RegisterFavorites registers /api/favorites; every route needs a bearer
// token.
func RegisterFavorites(e *echo.Echo, h *handler.FavoriteHandler, protect echo.MiddlewareFunc) {
	g := e.Group("/api/favorites", protect)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete)
}

// RegisterHealth registers the liveness probe.
func RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", handler.Healthz)
}
