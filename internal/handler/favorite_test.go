package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/model"
	"github.com/ovale/guia-negocios/internal/repository"
)

// withUser injects an authenticated user the way the auth middleware does.
func withUser(u model.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user", u)
			return next(c)
		}
	}
}

func newFavoriteApp(t *testing.T, u model.User) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewFavoriteHandler(repository.NewFavoriteRepo(db), repository.NewBusinessRepo(db))
	e := echo.New()
	g := e.Group("/api/favorites", withUser(u))
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete)
	return e, mock
}

// Favoriting a business that does not exist answers 404 and stores nothing.
func TestAddFavoriteUnknownBusiness(t *testing.T) {
	e, mock := newFavoriteApp(t, model.User{ID: 1, Role: model.RoleOwner, IsActive: true})

	mock.ExpectQuery(`WHERE b\.id=\? LIMIT 1`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest(http.MethodPost, "/api/favorites", strings.NewReader(`{"businessId":99}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404 (body %s)", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("nothing should be inserted: %v", err)
	}
}

// A duplicate favorite surfaces as a 400, whether caught sequentially or as
// the losing side of a concurrent insert.
func TestAddFavoriteDuplicate(t *testing.T) {
	e, mock := newFavoriteApp(t, model.User{ID: 1, Role: model.RoleOwner, IsActive: true})

	cols := businessFixtureCols()
	mock.ExpectQuery(`WHERE b\.id=\? LIMIT 1`).
		WithArgs(uint64(2)).
		WillReturnRows(businessFixtureRow(cols, 2))
	mock.ExpectQuery(regexp.QuoteMeta("FROM business_photos WHERE business_id IN (?)")).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"business_id", "url"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorites")).
		WithArgs(uint64(1), uint64(2)).
		WillReturnError(errDuplicateFavorite)

	req := httptest.NewRequest(http.MethodPost, "/api/favorites", strings.NewReader(`{"businessId":2}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// Admins may delete anyone's favorite; the repository receives the
// unscoped delete.
func TestDeleteFavoriteAdminBypass(t *testing.T) {
	e, mock := newFavoriteApp(t, model.User{ID: 8, Role: model.RoleAdmin, IsActive: true})

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites WHERE id=?")).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/api/favorites/3", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

var errDuplicateFavorite = &mysqlStyleError{"Error 1062 (23000): Duplicate entry '1-2' for key 'favorites.user_business'"}

type mysqlStyleError struct{ msg string }

func (e *mysqlStyleError) Error() string { return e.msg }

// businessFixtureCols lists the columns of the joined business select.
func businessFixtureCols() []string {
	return []string{
		"id", "name", "description", "phone",
		"whatsapp", "site", "instagram", "facebook",
		"linkedin", "twitter", "tiktok", "video",
		"street", "number", "city_id", "neighborhood_id",
		"lat", "lng",
		"category_id", "sub_category_id", "owner_id", "slug", "created_at",
		"city_name", "city_slug",
		"neighborhood_name", "neighborhood_slug",
		"category_name", "category_slug",
		"sub_category_name", "sub_category_slug",
		"owner_name",
	}
}

func businessFixtureRow(cols []string, id uint64) *sqlmock.Rows {
	return sqlmock.NewRows(cols).AddRow(
		id, "Padaria Central", "Fresh bread daily", "12 3456-7890",
		"", "", "", "",
		"", "", "", "",
		"Rua A", "10", uint64(1), uint64(1),
		"", "",
		uint64(1), uint64(1), uint64(1), "padaria-central", time.Now(),
		"São Paulo", "sao-paulo",
		"Centro", "centro",
		"Alimentação", "alimentacao",
		"Padaria", "padaria",
		"Owner",
	)
}
