package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/repository"
)

func newCityApp(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewCityHandler(repository.NewCityRepo(db), nil)
	e := echo.New()
	e.POST("/api/cities", h.Create)
	return e, mock
}

// Two cities slugifying to the same value collide on the unique index and
// the client learns the conflicting field.
func TestCreateCityDuplicateSlug(t *testing.T) {
	e, mock := newCityApp(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cities")).
		WithArgs("São Paulo", "sao-paulo", "", "").
		WillReturnError(&mysqlStyleError{"Error 1062 (23000): Duplicate entry 'sao-paulo' for key 'cities.slug'"})

	form := url.Values{"name": {"São Paulo"}}
	req := httptest.NewRequest(http.MethodPost, "/api/cities", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Success bool   `json:"success"`
		Field   string `json:"field"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Field != "slug" {
		t.Errorf("field = %q, want slug", body.Field)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateCityRequiresName(t *testing.T) {
	e, _ := newCityApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cities", strings.NewReader(""))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}
