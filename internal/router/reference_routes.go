package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/handler"
	"github.com/ovale/guia-negocios/internal/middleware"
	"github.com/ovale/guia-negocios/internal/model"
)

// RegisterCities registers /api/cities.  Reads are public and wrapped with
// the cache/rate-limit chain; writes are admin only.
func RegisterCities(e *echo.Echo, h *handler.CityHandler, protect echo.MiddlewareFunc, public ...echo.MiddlewareFunc) {
	g := e.Group("/api/cities")
	g.GET("", h.List, public...)
	g.GET("/popular", h.Popular, public...)
	g.GET("/id/:id", h.GetByID, public...)
	g.GET("/slug/:slug", h.GetBySlug, public...)

	admin := e.Group("/api/cities", protect, middleware.RequireRole(model.RoleAdmin))
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

// RegisterNeighborhoods registers /api/neighborhoods.
func RegisterNeighborhoods(e *echo.Echo, h *handler.NeighborhoodHandler, protect echo.MiddlewareFunc, public ...echo.MiddlewareFunc) {
	g := e.Group("/api/neighborhoods")
	g.GET("", h.List, public...)
	g.GET("/id/:id", h.GetByID, public...)
	g.GET("/slug/:slug", h.GetBySlug, public...)
	g.GET("/city/:cityId", h.ByCity, public...)

	admin := e.Group("/api/neighborhoods", protect, middleware.RequireRole(model.RoleAdmin))
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

// RegisterCategories registers /api/categories.
func RegisterCategories(e *echo.Echo, h *handler.CategoryHandler, protect echo.MiddlewareFunc, public ...echo.MiddlewareFunc) {
	g := e.Group("/api/categories")
	g.GET("", h.List, public...)
	g.GET("/id/:id", h.GetByID, public...)
	g.GET("/slug/:slug", h.GetBySlug, public...)

	admin := e.Group("/api/categories", protect, middleware.RequireRole(model.RoleAdmin))
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

// RegisterSubCategories registers /api/subcategories, including the
// admin-only hard delete alongside the default soft delete.
func RegisterSubCategories(e *echo.Echo, h *handler.SubCategoryHandler, protect echo.MiddlewareFunc, public ...echo.MiddlewareFunc) {
	g := e.Group("/api/subcategories")
	g.GET("", h.List, public...)
	g.GET("/id/:id", h.GetByID, public...)
	g.GET("/slug/:slug", h.GetBySlug, public...)
	g.GET("/category/:categorySlug", h.ByCategorySlug, public...)
	g.GET("/by-category-id/:categoryId", h.ByCategoryID, public...)

	admin := e.Group("/api/subcategories", protect, middleware.RequireRole(model.RoleAdmin))
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
	admin.DELETE("/hard/:id", h.HardDelete)
}
