// Package handler exposes the HTTP handlers of the directory API.  Every
// response uses one envelope: {success, data} on the happy path and
// {success:false, message} on failure, with duplicate-key failures adding
// the conflicting field name.
package handler

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/repository"
)

func parseUint(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) }

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func okMessage(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, echo.Map{"success": true, "message": message, "data": data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

// failRepo translates repository errors into the envelope: duplicate key
// becomes a 400 naming the field, missing rows a 404, everything else a
// 500 whose detail is only exposed outside production.
func failRepo(c echo.Context, err error) error {
	switch e := err.(type) {
	case *repository.DuplicateError:
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "duplicate value",
			"field":   e.Field,
		})
	}
	switch err {
	case repository.ErrNotFound:
		return fail(c, http.StatusNotFound, "not found")
	case repository.ErrForbidden:
		return fail(c, http.StatusForbidden, "forbidden")
	case repository.ErrAlreadyFavorited:
		return fail(c, http.StatusBadRequest, "business already favorited")
	}
	return failServer(c, err)
}

// failServer answers 500.  The underlying error text is returned only in
// dev; elsewhere it goes to the server log and the client gets a generic
// message.
func failServer(c echo.Context, err error) error {
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	msg := "internal error"
	if os.Getenv("APP_ENV") == "dev" {
		msg = err.Error()
	}
	return fail(c, http.StatusInternalServerError, msg)
}

// pathID parses the named path parameter as an id; ok=false means the
// caller already answered 400.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := parseUint(c.Param(name))
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
