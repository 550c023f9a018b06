package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/config"
	"github.com/ovale/guia-negocios/internal/middleware"
	"github.com/ovale/guia-negocios/internal/repository"
	"github.com/ovale/guia-negocios/internal/utils"
)

// AuthHandler bundles dependencies for account endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateMeReq struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type authResp struct {
	User    any       `json:"user"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Register creates an owner account and signs the caller in immediately.
// The register token is short-lived compared to login; signup is expected
// to flow straight into the app, not to act as a long-term session.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "name, email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return failServer(c, err)
	}
	// Self-service signup always creates owners; admins are promoted
	// directly in the store.
	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Phone, hash, "owner")
	if err != nil {
		return failRepo(c, err)
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return failRepo(c, err)
	}

	tok, err := utils.NewAuthToken(h.Cfg.JWTSecret, uid, h.Cfg.RegisterTokenTTL)
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusCreated, authResp{User: u, Token: tok.Token, Expires: tok.Exp})
}

// Login verifies credentials and returns a long-lived bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err == repository.ErrNotFound {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return failServer(c, err)
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	tok, err := utils.NewAuthToken(h.Cfg.JWTSecret, u.ID, h.Cfg.LoginTokenTTL)
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, authResp{User: u, Token: tok.Token, Expires: tok.Exp})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	u, okUser := middleware.CurrentUser(c)
	if !okUser {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}
	return ok(c, http.StatusOK, u)
}

// UpdateMe edits the caller's own profile.  Email changes are pre-checked
// against other accounts so the common case answers a clean 400 instead of
// a duplicate-key translation.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	u, okUser := middleware.CurrentUser(c)
	if !okUser {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}
	var req updateMeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.Email != nil {
		taken, err := h.Users.EmailInUseByOther(ctx, *req.Email, u.ID)
		if err != nil {
			return failServer(c, err)
		}
		if taken {
			return fail(c, http.StatusBadRequest, "email already in use")
		}
	}

	updated, err := h.Users.UpdateProfile(ctx, u.ID, repository.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return failRepo(c, err)
	}
	return ok(c, http.StatusOK, updated)
}

// ListUsers returns every account.  Admin only.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return failServer(c, err)
	}
	return ok(c, http.StatusOK, users)
}

// DeleteUser soft-deletes an account.  Admin only; the row stays so owned
// businesses keep their owner reference.
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Deactivate(ctx, id); err != nil {
		return failRepo(c, err)
	}
	return okMessage(c, http.StatusOK, "user deactivated", echo.Map{"id": id})
}
