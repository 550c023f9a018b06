package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ovale/guia-negocios/internal/model"
)

// UserRepo provides persistence for users.  Users are soft-deleted
// (is_active=false); an inactive user keeps owning their businesses but can
// no longer authenticate.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = "id, name, email, password_hash, COALESCE(phone,''), role, is_active, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user with an already-hashed password and returns its ID.
// A taken email surfaces as *DuplicateError{Field: "email"}.
func (r *UserRepo) Create(ctx context.Context, name, email, phone, passwordHash, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, phone, role) VALUES (?,?,?,NULLIF(?,''),?)",
		name, email, passwordHash, phone, role)
	if err != nil {
		if dup := asDuplicate(err); dup != nil {
			return 0, dup
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email, hash included.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id regardless of active state.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// GetActiveByID fetches a user by id, treating deactivated users as
// missing.  The auth middleware uses this so tokens of deactivated users
// stop resolving.
func (r *UserRepo) GetActiveByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? AND is_active=1 LIMIT 1", id))
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// EmailInUseByOther reports whether the email belongs to a different user.
func (r *UserRepo) EmailInUseByOther(ctx context.Context, email string, userID uint64) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE email=? AND id<>? LIMIT 1", email, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type UserUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// UpdateProfile applies the non-nil profile fields and returns the updated
// row.  Role and password are deliberately not updatable here.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, u UserUpdate) (model.User, error) {
	if u.Email != nil {
		norm := strings.ToLower(strings.TrimSpace(*u.Email))
		u.Email = &norm
	}
	set, args := buildSet([]field{
		{"name", u.Name},
		{"email", u.Email},
		{"phone", u.Phone},
	})
	if set != "" {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, "UPDATE users SET "+set+" WHERE id=?", args...); err != nil {
			if dup := asDuplicate(err); dup != nil {
				return model.User{}, dup
			}
			return model.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userCols+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Deactivate soft-deletes a user.
func (r *UserRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET is_active=0 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
