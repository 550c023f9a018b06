package middleware // reusable HTTP middleware for the API

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/model"
	"github.com/ovale/guia-negocios/internal/repository"
)

// userContextKey is where Protect stores the authenticated model.User.
const userContextKey = "user"

// Protect returns a middleware that validates a Bearer access token and
// loads the authenticated user into the request context.  The role check
// happens against the stored row, not the token: role changes and
// deactivations take effect on the next request even for tokens issued
// before the change.  Deactivated users fail the lookup and get 401.
func Protect(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid claims"})
			}

			// Numeric claims arrive as float64 from encoding/json; a
			// string sub is accepted too for robustness.
			var userID uint64
			switch v := claims["sub"].(type) {
			case float64:
				userID = uint64(v)
			case string:
				n, err := strconv.ParseUint(v, 10, 64)
				if err != nil {
					return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid claims"})
				}
				userID = n
			default:
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid claims"})
			}

			ctx := c.Request().Context()
			user, err := users.GetActiveByID(ctx, userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by Protect.  The bool
// is false on routes that are not behind Protect.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userContextKey).(model.User)
	return u, ok
}
