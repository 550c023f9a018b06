package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/model"
	"github.com/ovale/guia-negocios/internal/repository"
	"github.com/ovale/guia-negocios/internal/utils"
)

// NeighborhoodHandler bundles dependencies for neighborhood endpoints.
type NeighborhoodHandler struct {
	Neighborhoods *repository.NeighborhoodRepo
	Cities        *repository.CityRepo
}

func NewNeighborhoodHandler(n *repository.NeighborhoodRepo, cities *repository.CityRepo) *NeighborhoodHandler {
	return &NeighborhoodHandler{Neighborhoods: n, Cities: cities}
}

type neighborhoodReq struct {
	Name   string `json:"name" form:"name"`
	CityID uint64 `json:"cityId" form:"cityId"`
}

// List returns neighborhoods, optionally filtered with ?city=<slug>.  An
// unknown city slug is a 404 here (unlike search, where it short-circuits
// to an empty result).
func (h *NeighborhoodHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	var cityID uint64
	if slug := c.QueryParam("city"); slug != "" {
		city, err := h.Cities.GetBySlug(ctx, slug)
		if err != nil {
			return failRepo(c, err)
		}
		cityID = city.ID
	}
	items, err := h.Neighborhoods.List(ctx, cityID)
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, items)
}

func (h *NeighborhoodHandler) GetByID(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	n, err := h.Neighborhoods.GetByID(c.Request().Context(), id)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, n)
}

func (h *NeighborhoodHandler) GetBySlug(c echo.Context) error {
	n, err := h.Neighborhoods.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, n)
}

// ByCity lists the neighborhoods of one city by city id.
func (h *NeighborhoodHandler) ByCity(c echo.Context) error {
	cityID, okID := pathID(c, "cityId")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid city id")
	}
	ctx := c.Request().Context()
	if _, err := h.Cities.GetByID(ctx, cityID); err != nil {
		return failRepo(c, err)
	}
	items, err := h.Neighborhoods.List(ctx, cityID)
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, items)
}

// Create registers a neighborhood inside an existing city.  The (slug,
// city) pair is pre-checked for a friendly 400; the slug_city index catches
// the racing insert that slips past the check.
func (h *NeighborhoodHandler) Create(c echo.Context) error {
	var req neighborhoodReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.CityID == 0 {
		return fail(c, http.StatusBadRequest, "name and cityId are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Cities.GetByID(ctx, req.CityID); err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusBadRequest, "city does not exist")
		}
		return failServer(c, err)
	}

	slug := utils.Slugify(req.Name)
	exists, err := h.Neighborhoods.ExistsPair(ctx, slug, req.CityID, 0)
	if err != nil {
		return failServer(c, err)
	}
	if exists {
		return fail(c, http.StatusBadRequest, "neighborhood already exists in this city")
	}

	created, err := h.Neighborhoods.Create(ctx, model.Neighborhood{
		Name:   req.Name,
		Slug:   slug,
		CityID: req.CityID,
	})
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusCreated, created)
}

// Update edits name and/or city.  Either change re-validates the (slug,
// city) pair against other rows.
func (h *NeighborhoodHandler) Update(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req neighborhoodReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	current, err := h.Neighborhoods.GetByID(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}

	var u repository.NeighborhoodUpdate
	slug := current.Slug
	cityID := current.CityID
	if req.Name != "" && req.Name != current.Name {
		s := utils.Slugify(req.Name)
		u.Name = &req.Name
		u.Slug = &s
		slug = s
	}
	if req.CityID != 0 && req.CityID != current.CityID {
		if _, err := h.Cities.GetByID(ctx, req.CityID); err != nil {
			if err == repository.ErrNotFound {
				return fail(c, http.StatusBadRequest, "city does not exist")
			}
			return failServer(c, err)
		}
		u.CityID = &req.CityID
		cityID = req.CityID
	}
	if u.Slug != nil || u.CityID != nil {
		exists, err := h.Neighborhoods.ExistsPair(ctx, slug, cityID, id)
		if err != nil {
			return failServer(c, err)
		}
		if exists {
			return fail(c, http.StatusBadRequest, "neighborhood already exists in this city")
		}
	}

	updated, err := h.Neighborhoods.Update(ctx, id, u)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, updated)
}

func (h *NeighborhoodHandler) Delete(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Neighborhoods.Delete(ctx, id); err != nil {
		return failRepo(c, err)
	}
	return okMessage(c, http.StatusOK, "neighborhood deleted", echo.Map{"id": id})
}
