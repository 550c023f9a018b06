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

// CategoryHandler bundles dependencies for category endpoints.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
	Images     *imagehost.Client
}

func NewCategoryHandler(categories *repository.CategoryRepo, images *imagehost.Client) *CategoryHandler {
	return &CategoryHandler{Categories: categories, Images: images}
}

func (h *CategoryHandler) List(c echo.Context) error {
	items, err := h.Categories.ListAll(c.Request().Context())
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, items)
}

func (h *CategoryHandler) GetByID(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	cat, err := h.Categories.GetByID(c.Request().Context(), id)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, cat)
}

func (h *CategoryHandler) GetBySlug(c echo.Context) error {
	cat, err := h.Categories.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, cat)
}

// Create registers a category from a multipart form with an optional icon.
func (h *CategoryHandler) Create(c echo.Context) error {
	name := c.FormValue("name")
	if name == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	cat := model.Category{Name: name, Slug: utils.Slugify(name)}
	if fh := formFile(c, "icon"); fh != nil {
		up, err := relayImage(ctx, h.Images, imagehost.FolderCategories, fh, maxIconBytes)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		cat.Icon = up.URL
	}

	created, err := h.Categories.Create(ctx, cat)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusCreated, created)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	current, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}

	var u repository.CategoryUpdate
	if name := c.FormValue("name"); name != "" && name != current.Name {
		slug := utils.Slugify(name)
		u.Name = &name
		u.Slug = &slug
	}
	if fh := formFile(c, "icon"); fh != nil {
		up, err := relayImage(ctx, h.Images, imagehost.FolderCategories, fh, maxIconBytes)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		u.Icon = &up.URL
		if pid := imagehost.ExtractPublicID(current.Icon); pid != "" {
			if err := h.Images.Destroy(ctx, pid); err != nil {
				log.Printf("category: destroy replaced icon %q: %v", pid, err)
			}
		}
	}

	updated, err := h.Categories.Update(ctx, id, u)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, updated)
}

// Delete removes the category and destroys its hosted icon best-effort.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	deleted, err := h.Categories.Delete(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}
	if pid := imagehost.ExtractPublicID(deleted.Icon); pid != "" {
		if err := h.Images.Destroy(ctx, pid); err != nil {
			log.Printf("category: destroy icon %q: %v", pid, err)
		}
	}
	return okMessage(c, http.StatusOK, "category deleted", echo.Map{"id": id})
}
