package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/repository"
)

func newSearchApp(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewBusinessHandler(
		repository.NewBusinessRepo(db),
		repository.NewCityRepo(db),
		repository.NewNeighborhoodRepo(db),
		repository.NewCategoryRepo(db),
		repository.NewSubCategoryRepo(db),
		nil, // image host unused on the search path
	)
	e := echo.New()
	e.GET("/api/businesses/search", h.Search)
	return e, mock
}

type searchEnvelope struct {
	Success    bool              `json:"success"`
	Data       []json.RawMessage `json:"data"`
	Message    string            `json:"message"`
	Pagination struct {
		Page       int   `json:"page"`
		PerPage    int   `json:"perPage"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
	} `json:"pagination"`
}

// An unknown city slug is not an error: the client gets an empty success
// and the businesses table is never queried.
func TestSearchUnknownCitySlugShortCircuits(t *testing.T) {
	e, mock := newSearchApp(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cities WHERE slug=? LIMIT 1")).
		WithArgs("atlantis").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest(http.MethodGet, "/api/businesses/search?city=atlantis", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var env searchEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success {
		t.Error("success = false, want true")
	}
	if len(env.Data) != 0 {
		t.Errorf("data has %d items, want 0", len(env.Data))
	}
	if env.Pagination.Total != 0 || env.Pagination.TotalPages != 0 {
		t.Errorf("pagination = %+v, want zero totals", env.Pagination)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("businesses table should not be touched: %v", err)
	}
}

func TestSearchDefaultsAndPaginationEnvelope(t *testing.T) {
	e, mock := newSearchApp(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM businesses b WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(20))
	// Malformed page/perPage fall back to 1 and 9.
	mock.ExpectQuery(`LIMIT \? OFFSET \?`).
		WithArgs(9, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest(http.MethodGet, "/api/businesses/search?page=zero&perPage=-3", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var env searchEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Pagination.Page != 1 || env.Pagination.PerPage != 9 {
		t.Errorf("pagination defaults = %+v, want page 1 perPage 9", env.Pagination)
	}
	if env.Pagination.Total != 20 || env.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v, want total 20 totalPages 3", env.Pagination)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
