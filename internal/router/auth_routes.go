// Package router wires handlers to their URL surface.  Each Register*
// function owns one resource group; middleware is passed in from main so
// the wiring stays testable without a live Redis or database.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/handler"
	"github.com/ovale/guia-negocios/internal/middleware"
	"github.com/ovale/guia-negocios/internal/model"
)

// RegisterAuth registers the account endpoints under /api/auth.  Register
// and login are public; the rest require a bearer token, and the user
// management routes additionally require the admin role.
func RegisterAuth(e *echo.Echo, h *handler.AuthHandler, protect echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)

	me := g.Group("", protect)
	me.GET("/me", h.Me)
	me.PUT("/me", h.UpdateMe)

	admin := g.Group("", protect, middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.ListUsers)
	admin.DELETE("/:id", h.DeleteUser)
}
