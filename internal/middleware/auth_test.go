package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/model"
	"github.com/ovale/guia-negocios/internal/repository"
	"github.com/ovale/guia-negocios/internal/utils"
)

const testSecret = "test-secret"

var userCols = []string{
	"id", "name", "email", "password_hash", "phone",
	"role", "is_active", "created_at", "updated_at",
}

// newGuardedApp builds an echo app with one admin-only route behind
// Protect + RequireRole, backed by a mocked user store.
func newGuardedApp(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	users := repository.NewUserRepo(db)

	e := echo.New()
	g := e.Group("/admin", Protect(testSecret, users), RequireRole(model.RoleAdmin))
	g.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	})
	return e, mock
}

func expectActiveUser(mock sqlmock.Sqlmock, id uint64, role string) {
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id=? AND is_active=1 LIMIT 1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id, "Tester", "t@example.com", "x", "", role, true, now, now))
}

func TestProtectRejectsMissingToken(t *testing.T) {
	e, _ := newGuardedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d, want 401", rec.Code)
	}
}

func TestProtectRejectsGarbageToken(t *testing.T) {
	e, _ := newGuardedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d, want 401", rec.Code)
	}
}

func TestRequireRoleForbidsNonAdmin(t *testing.T) {
	e, mock := newGuardedApp(t)
	expectActiveUser(mock, 5, model.RoleOwner)

	tok, err := utils.NewAuthToken(testSecret, 5, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("owner on admin route: status %d, want 403", rec.Code)
	}
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	e, mock := newGuardedApp(t)
	expectActiveUser(mock, 9, model.RoleAdmin)

	tok, err := utils.NewAuthToken(testSecret, 9, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("admin on admin route: status %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestProtectRejectsDeactivatedUser(t *testing.T) {
	e, mock := newGuardedApp(t)
	// is_active=1 predicate matches nothing for a deactivated user.
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id=? AND is_active=1 LIMIT 1")).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows(userCols))

	tok, err := utils.NewAuthToken(testSecret, 11, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("deactivated user: status %d, want 401", rec.Code)
	}
}
