package repository

import (
	"context"
	"database/sql"

	"github.com/ovale/guia-negocios/internal/model"
)

// NeighborhoodRepo provides persistence for neighborhoods.  Reads join the
// owning city so responses can carry its name and slug.
type NeighborhoodRepo struct{ db *sql.DB }

func NewNeighborhoodRepo(db *sql.DB) *NeighborhoodRepo { return &NeighborhoodRepo{db: db} }

const neighborhoodSelect = `
	SELECT n.id, n.name, n.slug, n.city_id, c.name, c.slug
	FROM neighborhoods n
	JOIN cities c ON c.id = n.city_id`

func scanNeighborhood(row interface{ Scan(...any) error }) (model.Neighborhood, error) {
	var n model.Neighborhood
	err := row.Scan(&n.ID, &n.Name, &n.Slug, &n.CityID, &n.CityName, &n.CitySlug)
	return n, err
}

// List returns neighborhoods, optionally restricted to one city.
// cityID == 0 means all cities.
func (r *NeighborhoodRepo) List(ctx context.Context, cityID uint64) ([]model.Neighborhood, error) {
	q := neighborhoodSelect
	args := []any{}
	if cityID != 0 {
		q += " WHERE n.city_id=?"
		args = append(args, cityID)
	}
	q += " ORDER BY n.name"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Neighborhood{}
	for rows.Next() {
		n, err := scanNeighborhood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NeighborhoodRepo) GetByID(ctx context.Context, id uint64) (model.Neighborhood, error) {
	n, err := scanNeighborhood(r.db.QueryRowContext(ctx, neighborhoodSelect+" WHERE n.id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return n, ErrNotFound
	}
	return n, err
}

// GetBySlug fetches by slug alone.  Slugs are only unique per city, so this
// returns the first match; the search composer uses GetBySlugInCity when a
// city filter is present.
func (r *NeighborhoodRepo) GetBySlug(ctx context.Context, slug string) (model.Neighborhood, error) {
	n, err := scanNeighborhood(r.db.QueryRowContext(ctx, neighborhoodSelect+" WHERE n.slug=? LIMIT 1", slug))
	if err == sql.ErrNoRows {
		return n, ErrNotFound
	}
	return n, err
}

// GetBySlugInCity fetches by (slug, city) pair.
func (r *NeighborhoodRepo) GetBySlugInCity(ctx context.Context, slug string, cityID uint64) (model.Neighborhood, error) {
	n, err := scanNeighborhood(r.db.QueryRowContext(ctx,
		neighborhoodSelect+" WHERE n.slug=? AND n.city_id=? LIMIT 1", slug, cityID))
	if err == sql.ErrNoRows {
		return n, ErrNotFound
	}
	return n, err
}

// ExistsPair reports whether another neighborhood already uses the slug in
// the given city.  excludeID skips the row being updated.
func (r *NeighborhoodRepo) ExistsPair(ctx context.Context, slug string, cityID, excludeID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM neighborhoods WHERE slug=? AND city_id=? AND id<>? LIMIT 1",
		slug, cityID, excludeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a neighborhood.  The slug_city unique index backs up the
// handler's read-then-write duplicate check; a losing concurrent insert
// surfaces as *DuplicateError.
func (r *NeighborhoodRepo) Create(ctx context.Context, n model.Neighborhood) (model.Neighborhood, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO neighborhoods (name, slug, city_id) VALUES (?,?,?)",
		n.Name, n.Slug, n.CityID)
	if err != nil {
		if dup := asDuplicate(err); dup != nil {
			return model.Neighborhood{}, dup
		}
		return model.Neighborhood{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Neighborhood{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

type NeighborhoodUpdate struct {
	Name   *string
	Slug   *string
	CityID *uint64
}

func (r *NeighborhoodRepo) Update(ctx context.Context, id uint64, u NeighborhoodUpdate) (model.Neighborhood, error) {
	set, args := buildSet([]field{
		{"name", u.Name},
		{"slug", u.Slug},
		{"city_id", u.CityID},
	})
	if set != "" {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, "UPDATE neighborhoods SET "+set+" WHERE id=?", args...); err != nil {
			if dup := asDuplicate(err); dup != nil {
				return model.Neighborhood{}, dup
			}
			return model.Neighborhood{}, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *NeighborhoodRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM neighborhoods WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
