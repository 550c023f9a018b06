package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/middleware"
	"github.com/ovale/guia-negocios/internal/model"
	"github.com/ovale/guia-negocios/internal/repository"
)

// FavoriteHandler bundles dependencies for favorite endpoints.  All routes
// require a bearer token.
type FavoriteHandler struct {
	Favorites  *repository.FavoriteRepo
	Businesses *repository.BusinessRepo
}

func NewFavoriteHandler(f *repository.FavoriteRepo, b *repository.BusinessRepo) *FavoriteHandler {
	return &FavoriteHandler{Favorites: f, Businesses: b}
}

// List returns the caller's favorites with business display data.
func (h *FavoriteHandler) List(c echo.Context) error {
	user, okUser := middleware.CurrentUser(c)
	if !okUser {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}
	items, err := h.Favorites.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, items)
}

// Create favorites a business for the caller.  The business must exist
// (404 otherwise, nothing stored); a second favorite of the same business
// answers 400 whether it arrives sequentially or as the losing side of a
// concurrent double-insert.
func (h *FavoriteHandler) Create(c echo.Context) error {
	user, okUser := middleware.CurrentUser(c)
	if !okUser {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}
	var req struct {
		BusinessID uint64 `json:"businessId"`
	}
	if err := c.Bind(&req); err != nil || req.BusinessID == 0 {
		return fail(c, http.StatusBadRequest, "businessId is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Businesses.GetByID(ctx, req.BusinessID); err != nil {
		return failRepo(c, err)
	}

	f, err := h.Favorites.Create(ctx, user.ID, req.BusinessID)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusCreated, f)
}

// Delete removes a favorite by id.  Admins may remove anyone's; everyone
// else only their own, and a foreign id answers the same 404 as a missing
// one.
func (h *FavoriteHandler) Delete(c echo.Context) error {
	user, okUser := middleware.CurrentUser(c)
	if !okUser {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Favorites.DeleteOwned(ctx, id, user.ID, user.Role == model.RoleAdmin); err != nil {
		return failRepo(c, err)
	}
	return okMessage(c, http.StatusOK, "favorite removed", echo.Map{"id": id})
}
