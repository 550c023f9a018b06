package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/imagehost"
	"github.com/ovale/guia-negocios/internal/model"
	"github.com/ovale/guia-negocios/internal/repository"
	"github.com/ovale/guia-negocios/internal/utils"
)

// CityHandler bundles dependencies for city endpoints.  Writes accept
// multipart bodies so the city image can ride along with the form fields.
type CityHandler struct {
	Cities *repository.CityRepo
	Images *imagehost.Client
}

func NewCityHandler(cities *repository.CityRepo, images *imagehost.Client) *CityHandler {
	return &CityHandler{Cities: cities, Images: images}
}

func (h *CityHandler) List(c echo.Context) error {
	cities, err := h.Cities.ListAll(c.Request().Context())
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, cities)
}

// Popular returns the cities with the most registered businesses.
func (h *CityHandler) Popular(c echo.Context) error {
	cities, err := h.Cities.Popular(c.Request().Context(), 8)
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, cities)
}

func (h *CityHandler) GetByID(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	city, err := h.Cities.GetByID(c.Request().Context(), id)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, city)
}

func (h *CityHandler) GetBySlug(c echo.Context) error {
	city, err := h.Cities.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, city)
}

// Create registers a city from a multipart form: name plus an optional
// image file.  The upload happens first so a host failure rejects the whole
// request instead of leaving an imageless city behind.
func (h *CityHandler) Create(c echo.Context) error {
	name := c.FormValue("name")
	if name == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	city := model.City{Name: name, Slug: utils.Slugify(name)}
	if fh := formFile(c, "image"); fh != nil {
		up, err := relayImage(ctx, h.Images, imagehost.FolderCities, fh, maxIconBytes)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		city.Image = up.URL
		city.ImagePublicID = up.PublicID
	}

	created, err := h.Cities.Create(ctx, city)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusCreated, created)
}

// Update edits name and/or image.  A name change regenerates the slug; a
// new image replaces the hosted one, destroying the old upload best-effort.
func (h *CityHandler) Update(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	current, err := h.Cities.GetByID(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}

	var u repository.CityUpdate
	if name := c.FormValue("name"); name != "" && name != current.Name {
		slug := utils.Slugify(name)
		u.Name = &name
		u.Slug = &slug
	}
	if fh := formFile(c, "image"); fh != nil {
		up, err := relayImage(ctx, h.Images, imagehost.FolderCities, fh, maxIconBytes)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		u.Image = &up.URL
		u.ImagePublicID = &up.PublicID
		if current.ImagePublicID != "" {
			if err := h.Images.Destroy(ctx, current.ImagePublicID); err != nil {
				log.Printf("city: destroy replaced image %q: %v", current.ImagePublicID, err)
			}
		}
	}

	updated, err := h.Cities.Update(ctx, id, u)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, updated)
}

// Delete removes the city and destroys its hosted image best-effort.
func (h *CityHandler) Delete(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	deleted, err := h.Cities.Delete(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}
	if deleted.ImagePublicID != "" {
		if err := h.Images.Destroy(ctx, deleted.ImagePublicID); err != nil {
			log.Printf("city: destroy image %q: %v", deleted.ImagePublicID, err)
		}
	}
	return okMessage(c, http.StatusOK, "city deleted", echo.Map{"id": id})
}
