package repository

import (
	"context"
	"database/sql"

	"github.com/ovale/guia-negocios/internal/model"
)

// SubCategoryRepo provides persistence for subcategories.  Subcategories
// are soft-deleted (active=false); HardDelete exists for the admin-only
// permanent removal route.
type SubCategoryRepo struct{ db *sql.DB }

func NewSubCategoryRepo(db *sql.DB) *SubCategoryRepo { return &SubCategoryRepo{db: db} }

const subCategorySelect = `
	SELECT s.id, s.name, s.slug, COALESCE(s.icon,''), s.category_id, s.active,
	       s.created_at, s.updated_at, c.name, c.slug
	FROM sub_categories s
	JOIN categories c ON c.id = s.category_id`

func scanSubCategory(row interface{ Scan(...any) error }) (model.SubCategory, error) {
	var s model.SubCategory
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Icon, &s.CategoryID, &s.Active,
		&s.CreatedAt, &s.UpdatedAt, &s.CategoryName, &s.CategorySlug)
	return s, err
}

// List returns subcategories filtered by category and/or active flag.
// categoryID == 0 means all categories; activeOnly nil means both states.
func (r *SubCategoryRepo) List(ctx context.Context, categoryID uint64, activeOnly *bool) ([]model.SubCategory, error) {
	q := subCategorySelect
	where := ""
	args := []any{}
	if categoryID != 0 {
		where = " WHERE s.category_id=?"
		args = append(args, categoryID)
	}
	if activeOnly != nil {
		if where == "" {
			where = " WHERE s.active=?"
		} else {
			where += " AND s.active=?"
		}
		args = append(args, *activeOnly)
	}
	q += where + " ORDER BY s.name"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.SubCategory{}
	for rows.Next() {
		s, err := scanSubCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SubCategoryRepo) GetByID(ctx context.Context, id uint64) (model.SubCategory, error) {
	s, err := scanSubCategory(r.db.QueryRowContext(ctx, subCategorySelect+" WHERE s.id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

func (r *SubCategoryRepo) GetBySlug(ctx context.Context, slug string) (model.SubCategory, error) {
	s, err := scanSubCategory(r.db.QueryRowContext(ctx, subCategorySelect+" WHERE s.slug=? LIMIT 1", slug))
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

// FindByNameInCategory locates a subcategory by name within a category,
// case-insensitively (the column collation makes = case-insensitive).
// Used by Create to reactivate a soft-deleted duplicate instead of
// erroring.
func (r *SubCategoryRepo) FindByNameInCategory(ctx context.Context, name string, categoryID uint64) (model.SubCategory, error) {
	s, err := scanSubCategory(r.db.QueryRowContext(ctx,
		subCategorySelect+" WHERE s.name=? AND s.category_id=? LIMIT 1", name, categoryID))
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

func (r *SubCategoryRepo) Create(ctx context.Context, s model.SubCategory) (model.SubCategory, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO sub_categories (name, slug, icon, category_id, active) VALUES (?,?,NULLIF(?,''),?,1)",
		s.Name, s.Slug, s.Icon, s.CategoryID)
	if err != nil {
		if dup := asDuplicate(err); dup != nil {
			return model.SubCategory{}, dup
		}
		return model.SubCategory{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.SubCategory{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

type SubCategoryUpdate struct {
	Name       *string
	Slug       *string
	Icon       *string
	CategoryID *uint64
	Active     *bool
}

func (r *SubCategoryRepo) Update(ctx context.Context, id uint64, u SubCategoryUpdate) (model.SubCategory, error) {
	set, args := buildSet([]field{
		{"name", u.Name},
		{"slug", u.Slug},
		{"icon", u.Icon},
		{"category_id", u.CategoryID},
		{"active", u.Active},
	})
	if set != "" {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, "UPDATE sub_categories SET "+set+" WHERE id=?", args...); err != nil {
			if dup := asDuplicate(err); dup != nil {
				return model.SubCategory{}, dup
			}
			return model.SubCategory{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// SoftDelete marks the subcategory inactive and returns the updated row.
func (r *SubCategoryRepo) SoftDelete(ctx context.Context, id uint64) (model.SubCategory, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE sub_categories SET active=0 WHERE id=?", id)
	if err != nil {
		return model.SubCategory{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.SubCategory{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// HardDelete permanently removes the row and returns it so the caller can
// clean up the hosted icon.
func (r *SubCategoryRepo) HardDelete(ctx context.Context, id uint64) (model.SubCategory, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return model.SubCategory{}, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sub_categories WHERE id=?", id); err != nil {
		return model.SubCategory{}, err
	}
	return s, nil
}
