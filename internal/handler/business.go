package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/imagehost"
	"github.com/ovale/guia-negocios/internal/middleware"
	"github.com/ovale/guia-negocios/internal/model"
	"github.com/ovale/guia-negocios/internal/queue"
	"github.com/ovale/guia-negocios/internal/repository"
	queue_publisher "github.com/ovale/guia-negocios/internal/service"
	"github.com/ovale/guia-negocios/internal/utils"
)

// BusinessHandler bundles dependencies for listing endpoints.  Create and
// Update accept multipart bodies carrying up to ten photos each.
type BusinessHandler struct {
	Businesses    *repository.BusinessRepo
	Cities        *repository.CityRepo
	Neighborhoods *repository.NeighborhoodRepo
	Categories    *repository.CategoryRepo
	SubCategories *repository.SubCategoryRepo
	Images        *imagehost.Client
}

func NewBusinessHandler(
	b *repository.BusinessRepo,
	cities *repository.CityRepo,
	n *repository.NeighborhoodRepo,
	cat *repository.CategoryRepo,
	sub *repository.SubCategoryRepo,
	images *imagehost.Client,
) *BusinessHandler {
	return &BusinessHandler{
		Businesses:    b,
		Cities:        cities,
		Neighborhoods: n,
		Categories:    cat,
		SubCategories: sub,
		Images:        images,
	}
}

func (h *BusinessHandler) List(c echo.Context) error {
	items, err := h.Businesses.ListAll(c.Request().Context())
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, items)
}

// Latest returns the newest listings; ?limit= defaults to 6.
func (h *BusinessHandler) Latest(c echo.Context) error {
	limit := 6
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}
	items, err := h.Businesses.Latest(c.Request().Context(), limit)
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, items)
}

// ByDate returns every listing's creation timestamp in ascending order,
// consumed by the registrations-over-time chart.
func (h *BusinessHandler) ByDate(c echo.Context) error {
	items, err := h.Businesses.ByDate(c.Request().Context())
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, items)
}

// Stats returns the dashboard counters.
func (h *BusinessHandler) Stats(c echo.Context) error {
	s, err := h.Businesses.Stats(c.Request().Context())
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, s)
}

// Recent returns the newest registrations in dashboard-card form.
func (h *BusinessHandler) Recent(c echo.Context) error {
	items, err := h.Businesses.Recent(c.Request().Context(), 5)
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, items)
}

func (h *BusinessHandler) GetByID(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	b, err := h.Businesses.GetByID(c.Request().Context(), id)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, b)
}

func (h *BusinessHandler) GetBySlug(c echo.Context) error {
	b, err := h.Businesses.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, b)
}

// Search is the public filter endpoint.  Filters arrive as slugs and are
// resolved here: an unresolvable city or neighborhood slug means "no such
// place", answered as an empty success instead of an error so clients can
// render a plain empty state.  Unresolvable category/subcategory slugs are
// ignored.
func (h *BusinessHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	q := repository.BusinessSearchQuery{
		Name:    c.QueryParam("name"),
		Page:    1,
		PerPage: 9,
		Random:  c.QueryParam("random") == "true",
	}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && v > 0 && v <= 100 {
		q.PerPage = v
	}

	empty := func() error {
		return c.JSON(http.StatusOK, echo.Map{
			"success":    true,
			"data":       []repository.BusinessRow{},
			"message":    "no businesses found",
			"pagination": repository.NewPagination(q.Page, q.PerPage, 0),
		})
	}

	if slug := c.QueryParam("city"); slug != "" {
		city, err := h.Cities.GetBySlug(ctx, slug)
		if err == repository.ErrNotFound {
			return empty()
		}
		if err != nil {
			return failServer(c, err)
		}
		q.CityID = city.ID
	}
	if slug := c.QueryParam("neighborhood"); slug != "" {
		var (
			n   model.Neighborhood
			err error
		)
		if q.CityID != 0 {
			n, err = h.Neighborhoods.GetBySlugInCity(ctx, slug, q.CityID)
		} else {
			n, err = h.Neighborhoods.GetBySlug(ctx, slug)
		}
		if err == repository.ErrNotFound {
			return empty()
		}
		if err != nil {
			return failServer(c, err)
		}
		q.NeighborhoodID = n.ID
	}
	if slug := c.QueryParam("category"); slug != "" {
		if cat, err := h.Categories.GetBySlug(ctx, slug); err == nil {
			q.CategoryID = cat.ID
		} else if err != repository.ErrNotFound {
			return failServer(c, err)
		}
	}
	if slug := c.QueryParam("subcategory"); slug != "" {
		if sub, err := h.SubCategories.GetBySlug(ctx, slug); err == nil {
			q.SubCategoryID = sub.ID
		} else if err != repository.ErrNotFound {
			return failServer(c, err)
		}
	}

	items, total, err := h.Businesses.Search(ctx, q)
	if err != nil {
		return failServer(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       items,
		"pagination": repository.NewPagination(q.Page, q.PerPage, total),
	})
}

// bindBusinessForm pulls the scalar listing fields out of a multipart form.
func bindBusinessForm(c echo.Context) model.Business {
	return model.Business{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Phone:       c.FormValue("phone"),
		Whatsapp:    c.FormValue("whatsapp"),
		Site:        c.FormValue("site"),
		Instagram:   c.FormValue("instagram"),
		Facebook:    c.FormValue("facebook"),
		Linkedin:    c.FormValue("linkedin"),
		Twitter:     c.FormValue("twitter"),
		Tiktok:      c.FormValue("tiktok"),
		Video:       c.FormValue("video"),
		Lat:         c.FormValue("lat"),
		Lng:         c.FormValue("long"),
		Address: model.Address{
			Street: c.FormValue("street"),
			Number: c.FormValue("number"),
		},
	}
}

// checkReferences validates the city/neighborhood/category/subcategory ids
// of a listing.  Read-then-write: a referenced row deleted between check
// and insert is an accepted race.
func (h *BusinessHandler) checkReferences(ctx context.Context, cityID, neighborhoodID, categoryID, subCategoryID uint64) (string, error) {
	if _, err := h.Cities.GetByID(ctx, cityID); err != nil {
		if err == repository.ErrNotFound {
			return "city does not exist", nil
		}
		return "", err
	}
	n, err := h.Neighborhoods.GetByID(ctx, neighborhoodID)
	if err != nil {
		if err == repository.ErrNotFound {
			return "neighborhood does not exist", nil
		}
		return "", err
	}
	if n.CityID != cityID {
		return "neighborhood does not belong to the city", nil
	}
	if _, err := h.Categories.GetByID(ctx, categoryID); err != nil {
		if err == repository.ErrNotFound {
			return "category does not exist", nil
		}
		return "", err
	}
	s, err := h.SubCategories.GetByID(ctx, subCategoryID)
	if err != nil {
		if err == repository.ErrNotFound {
			return "subcategory does not exist", nil
		}
		return "", err
	}
	if s.CategoryID != categoryID {
		return "subcategory does not belong to the category", nil
	}
	return "", nil
}

// Create registers a listing owned by the caller.  Photos are relayed to
// the image host before the insert so a failed upload rejects the whole
// request; after commit a listing.created event is published best-effort.
func (h *BusinessHandler) Create(c echo.Context) error {
	user, okUser := middleware.CurrentUser(c)
	if !okUser {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	b := bindBusinessForm(c)
	if b.Name == "" || b.Description == "" || b.Phone == "" {
		return fail(c, http.StatusBadRequest, "name, description and phone are required")
	}
	var err error
	if b.Address.CityID, err = parseUint(c.FormValue("cityId")); err != nil || b.Address.CityID == 0 {
		return fail(c, http.StatusBadRequest, "cityId is required")
	}
	if b.Address.NeighborhoodID, err = parseUint(c.FormValue("neighborhoodId")); err != nil || b.Address.NeighborhoodID == 0 {
		return fail(c, http.StatusBadRequest, "neighborhoodId is required")
	}
	if b.CategoryID, err = parseUint(c.FormValue("categoryId")); err != nil || b.CategoryID == 0 {
		return fail(c, http.StatusBadRequest, "categoryId is required")
	}
	if b.SubCategoryID, err = parseUint(c.FormValue("subCategoryId")); err != nil || b.SubCategoryID == 0 {
		return fail(c, http.StatusBadRequest, "subCategoryId is required")
	}
	b.OwnerID = user.ID
	b.Slug = utils.Slugify(b.Name)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	if msg, err := h.checkReferences(ctx, b.Address.CityID, b.Address.NeighborhoodID, b.CategoryID, b.SubCategoryID); err != nil {
		return failServer(c, err)
	} else if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	photos, err := formPhotos(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	for _, fh := range photos {
		up, err := relayImage(ctx, h.Images, imagehost.FolderBusinesses, fh, maxPhotoBytes)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		b.Photos = append(b.Photos, up.URL)
	}

	created, err := h.Businesses.Create(ctx, b)
	if err != nil {
		return failRepo(c, err)
	}

	// Fire-and-forget: a broker outage must not fail the registration.
	go func(ev queue.ListingCreatedEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishListingCreated(pubCtx, ev)
	}(queue.ListingCreatedEvent{
		BusinessID:   created.ID,
		Name:         created.Name,
		Slug:         created.Slug,
		CityName:     created.CityName,
		CategoryName: created.CategoryName,
		OwnerID:      created.OwnerID,
		OwnerName:    created.OwnerName,
		PhotoCount:   len(created.Photos),
		CreatedAt:    created.CreatedAt.UTC().Format(time.RFC3339),
	})

	return ok(c, http.StatusCreated, created)
}

// canManage reports whether the caller may modify the listing.
func canManage(user model.User, b repository.BusinessRow) bool {
	return user.Role == model.RoleAdmin || user.ID == b.OwnerID
}

// Update edits a listing the caller owns (or any listing, for admins).
// New photos replace the existing set unless photosAction=append; URLs in
// the photosToDelete JSON array are removed and destroyed on the host.
func (h *BusinessHandler) Update(c echo.Context) error {
	user, okUser := middleware.CurrentUser(c)
	if !okUser {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	current, err := h.Businesses.GetByID(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}
	if !canManage(user, current) {
		return fail(c, http.StatusForbidden, "forbidden")
	}

	var u repository.BusinessUpdate
	setStr := func(dst **string, field string) {
		if v := c.FormValue(field); v != "" {
			*dst = &v
		}
	}
	setStr(&u.Description, "description")
	setStr(&u.Phone, "phone")
	setStr(&u.Whatsapp, "whatsapp")
	setStr(&u.Site, "site")
	setStr(&u.Instagram, "instagram")
	setStr(&u.Facebook, "facebook")
	setStr(&u.Linkedin, "linkedin")
	setStr(&u.Twitter, "twitter")
	setStr(&u.Tiktok, "tiktok")
	setStr(&u.Video, "video")
	setStr(&u.Street, "street")
	setStr(&u.Number, "number")
	setStr(&u.Lat, "lat")
	setStr(&u.Lng, "long")
	if name := c.FormValue("name"); name != "" && name != current.Name {
		slug := utils.Slugify(name)
		u.Name = &name
		u.Slug = &slug
	}

	cityID := current.Address.CityID
	neighborhoodID := current.Address.NeighborhoodID
	categoryID := current.CategoryID
	subCategoryID := current.SubCategoryID
	badID := ""
	setID := func(dst **uint64, field string, into *uint64) {
		v := c.FormValue(field)
		if v == "" {
			return
		}
		n, err := parseUint(v)
		if err != nil || n == 0 {
			badID = field
			return
		}
		*dst = &n
		*into = n
	}
	setID(&u.CityID, "cityId", &cityID)
	setID(&u.NeighborhoodID, "neighborhoodId", &neighborhoodID)
	setID(&u.CategoryID, "categoryId", &categoryID)
	setID(&u.SubCategoryID, "subCategoryId", &subCategoryID)
	if badID != "" {
		return fail(c, http.StatusBadRequest, "invalid "+badID)
	}
	if u.CityID != nil || u.NeighborhoodID != nil || u.CategoryID != nil || u.SubCategoryID != nil {
		if msg, err := h.checkReferences(ctx, cityID, neighborhoodID, categoryID, subCategoryID); err != nil {
			return failServer(c, err)
		} else if msg != "" {
			return fail(c, http.StatusBadRequest, msg)
		}
	}

	// Photo removals by URL.
	if raw := c.FormValue("photosToDelete"); raw != "" {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err != nil {
			return fail(c, http.StatusBadRequest, "photosToDelete must be a JSON array of URLs")
		}
		for _, url := range urls {
			if err := h.Businesses.RemovePhoto(ctx, id, url); err != nil {
				if err == repository.ErrNotFound {
					continue // already gone
				}
				return failServer(c, err)
			}
			h.destroyPhoto(ctx, url)
		}
	}

	// New photos: append to or replace the remaining set.
	newPhotos, err := formPhotos(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if len(newPhotos) > 0 {
		urls := make([]string, 0, len(newPhotos))
		for _, fh := range newPhotos {
			up, err := relayImage(ctx, h.Images, imagehost.FolderBusinesses, fh, maxPhotoBytes)
			if err != nil {
				return fail(c, http.StatusBadRequest, err.Error())
			}
			urls = append(urls, up.URL)
		}
		if c.FormValue("photosAction") == "append" {
			err = h.Businesses.AppendPhotos(ctx, id, urls)
		} else {
			refreshed, gerr := h.Businesses.GetByID(ctx, id)
			if gerr != nil {
				return failRepo(c, gerr)
			}
			for _, old := range refreshed.Photos {
				h.destroyPhoto(ctx, old)
			}
			err = h.Businesses.ReplacePhotos(ctx, id, urls)
		}
		if err != nil {
			return failServer(c, err)
		}
	}

	updated, err := h.Businesses.Update(ctx, id, u)
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, updated)
}

// DeletePhoto removes one photo by URL from a listing the caller manages.
func (h *BusinessHandler) DeletePhoto(c echo.Context) error {
	user, okUser := middleware.CurrentUser(c)
	if !okUser {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		PhotoURL string `json:"photoUrl"`
	}
	if err := c.Bind(&req); err != nil || req.PhotoURL == "" {
		return fail(c, http.StatusBadRequest, "photoUrl is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	b, err := h.Businesses.GetByID(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}
	if !canManage(user, b) {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	if err := h.Businesses.RemovePhoto(ctx, id, req.PhotoURL); err != nil {
		return failRepo(c, err)
	}
	h.destroyPhoto(ctx, req.PhotoURL)
	return okMessage(c, http.StatusOK, "photo removed", echo.Map{"id": id})
}

// Delete removes a listing the caller manages, then destroys its hosted
// photos best-effort.
func (h *BusinessHandler) Delete(c echo.Context) error {
	user, okUser := middleware.CurrentUser(c)
	if !okUser {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	b, err := h.Businesses.GetByID(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}
	if !canManage(user, b) {
		return fail(c, http.StatusForbidden, "forbidden")
	}

	photos, err := h.Businesses.Delete(ctx, id)
	if err != nil {
		return failRepo(c, err)
	}
	for _, url := range photos {
		h.destroyPhoto(ctx, url)
	}
	return okMessage(c, http.StatusOK, "business deleted", echo.Map{"id": id})
}

// destroyPhoto best-effort deletes a hosted photo by its delivery URL.
func (h *BusinessHandler) destroyPhoto(ctx context.Context, url string) {
	pid := imagehost.ExtractPublicID(url)
	if pid == "" {
		return
	}
	if err := h.Images.Destroy(ctx, pid); err != nil {
		log.Printf("business: destroy photo %q: %v", pid, err)
	}
}
