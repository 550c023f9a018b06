package repository

import (
	"context"
	"database/sql"

	"github.com/ovale/guia-negocios/internal/model"
)

// CategoryRepo provides persistence for categories.
type CategoryRepo struct{ db *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = "id, name, slug, COALESCE(icon,'')"

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Icon)
	return c, err
}

func (r *CategoryRepo) ListAll(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+categoryCols+" FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		"SELECT "+categoryCols+" FROM categories WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (model.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		"SELECT "+categoryCols+" FROM categories WHERE slug=? LIMIT 1", slug))
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

func (r *CategoryRepo) Create(ctx context.Context, c model.Category) (model.Category, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (name, slug, icon) VALUES (?,?,NULLIF(?,''))",
		c.Name, c.Slug, c.Icon)
	if err != nil {
		if dup := asDuplicate(err); dup != nil {
			return model.Category{}, dup
		}
		return model.Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Category{}, err
	}
	c.ID = uint64(id)
	return c, nil
}

type CategoryUpdate struct {
	Name *string
	Slug *string
	Icon *string
}

func (r *CategoryRepo) Update(ctx context.Context, id uint64, u CategoryUpdate) (model.Category, error) {
	set, args := buildSet([]field{
		{"name", u.Name},
		{"slug", u.Slug},
		{"icon", u.Icon},
	})
	if set != "" {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, "UPDATE categories SET "+set+" WHERE id=?", args...); err != nil {
			if dup := asDuplicate(err); dup != nil {
				return model.Category{}, dup
			}
			return model.Category{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the category and returns the deleted row so the caller
// can clean up the hosted icon.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) (model.Category, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id); err != nil {
		return model.Category{}, err
	}
	return c, nil
}
