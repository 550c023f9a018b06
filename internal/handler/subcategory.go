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

// SubCategoryHandler bundles dependencies for subcategory endpoints.
type SubCategoryHandler struct {
	SubCategories *repository.SubCategoryRepo
	Categories    *repository.CategoryRepo
	Images        *imagehost.Client
}

func NewSubCategoryHandler(s *repository.SubCategoryRepo, cat *repository.CategoryRepo, images *imagehost.Client) *SubCategoryHandler {
	return &SubCategoryHandler{SubCategories: s, Categories: cat, Images: images}
}

// List returns subcategories, optionally filtered with ?category=<slug>.
// Both active and inactive rows are returned; the public per-category
// routes filter to active.
func (h *SubCategoryHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	var categoryID uint64
	if slug := c.QueryParam("category"); slug != "" {
		cat, err := h.Categories.GetBySlug(ctx, slug)
		if err != nil {
			return failRepo(c, err)
		}
		categoryID = cat.ID
	}
	items, err := h.SubCategories.List(ctx, categoryID, nil)
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, items)
}

func (h *SubCategoryHandler) GetByID(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	s, err := h.SubCategories.GetByID(c.Request().Context(), id)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, s)
}

func (h *SubCategoryHandler) GetBySlug(c echo.Context) error {
	s, err := h.SubCategories.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, s)
}

// ByCategorySlug lists the active subcategories of one category, addressed
// by category slug.  This is the public navigation route.
func (h *SubCategoryHandler) ByCategorySlug(c echo.Context) error {
	ctx := c.Request().Context()
	cat, err := h.Categories.GetBySlug(ctx, c.Param("categorySlug"))
	if err != nil {
		return failRepo(c, err)
	}
	active := true
	items, err := h.SubCategories.List(ctx, cat.ID, &active)
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, items)
}

// ByCategoryID lists the active subcategories of one category by id.
func (h *SubCategoryHandler) ByCategoryID(c echo.Context) error {
	categoryID, okID := pathID(c, "categoryId")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid category id")
	}
	ctx := c.Request().Context()
	if _, err := h.Categories.GetByID(ctx, categoryID); err != nil {
		return failRepo(c, err)
	}
	active := true
	items, err := h.SubCategories.List(ctx, categoryID, &active)
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, items)
}

// Create registers a subcategory.  When a soft-deleted row with the same
// name already exists in the category, it is reactivated instead of
// erroring: the old slug and any businesses pointing at it come back.
func (h *SubCategoryHandler) Create(c echo.Context) error {
	name := c.FormValue("name")
	categoryID, err := parseUint(c.FormValue("categoryId"))
	if name == "" || err != nil || categoryID == 0 {
		return fail(c, http.StatusBadRequest, "name and categoryId are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if _, err := h.Categories.GetByID(ctx, categoryID); err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusBadRequest, "category does not exist")
		}
		return failServer(c, err)
	}

	existing, err := h.SubCategories.FindByNameInCategory(ctx, name, categoryID)
	switch {
	case err == nil && existing.Active:
		return fail(c, http.StatusBadRequest, "subcategory already exists in this category")
	case err == nil:
		active := true
		revived, err := h.SubCategories.Update(ctx, existing.ID, repository.SubCategoryUpdate{Active: &active})
		if err != nil {
			return failRepo(c, err)
		}
		return okMessage(c, http.StatusOK, "subcategory reactivated", revived)
	case err != repository.ErrNotFound:
		return failServer(c, err)
	}

	s := model.SubCategory{Name: name, Slug: utils.Slugify(name), CategoryID: categoryID}
	if fh := formFile(c, "icon"); fh != nil {
		up, err := relayImage(ctx, h.Images, imagehost.FolderSubCategories, fh, maxIconBytes)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		s.Icon = up.URL
	}

	created, err := h.SubCategories.Create(ctx, s)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusCreated, created)
}

func (h *SubCategoryHandler) Update(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	current, err := h.SubCategories.GetByID(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}

	var u repository.SubCategoryUpdate
	if name := c.FormValue("name"); name != "" && name != current.Name {
		slug := utils.Slugify(name)
		u.Name = &name
		u.Slug = &slug
	}
	if v := c.FormValue("categoryId"); v != "" {
		categoryID, err := parseUint(v)
		if err != nil || categoryID == 0 {
			return fail(c, http.StatusBadRequest, "invalid categoryId")
		}
		if categoryID != current.CategoryID {
			if _, err := h.Categories.GetByID(ctx, categoryID); err != nil {
				if err == repository.ErrNotFound {
					return fail(c, http.StatusBadRequest, "category does not exist")
				}
				return failServer(c, err)
			}
			u.CategoryID = &categoryID
		}
	}
	if fh := formFile(c, "icon"); fh != nil {
		up, err := relayImage(ctx, h.Images, imagehost.FolderSubCategories, fh, maxIconBytes)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		u.Icon = &up.URL
		if pid := imagehost.ExtractPublicID(current.Icon); pid != "" {
			if err := h.Images.Destroy(ctx, pid); err != nil {
				log.Printf("subcategory: destroy replaced icon %q: %v", pid, err)
			}
		}
	}

	updated, err := h.SubCategories.Update(ctx, id, u)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, updated)
}

// Delete soft-deletes: the row flips to inactive and disappears from the
// public routes, but a later create with the same name revives it.
func (h *SubCategoryHandler) Delete(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.SubCategories.SoftDelete(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}
	return okMessage(c, http.StatusOK, "subcategory deactivated", s)
}

// HardDelete permanently removes the row and its hosted icon.
func (h *SubCategoryHandler) HardDelete(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	deleted, err := h.SubCategories.HardDelete(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}
	if pid := imagehost.ExtractPublicID(deleted.Icon); pid != "" {
		if err := h.Images.Destroy(ctx, pid); err != nil {
			log.Printf("subcategory: destroy icon %q: %v", pid, err)
		}
	}
	return okMessage(c, http.StatusOK, "subcategory deleted", echo.Map{"id": id})
}
