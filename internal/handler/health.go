package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Healthz is a liveness probe; it answers before any dependency is touched.
func Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
