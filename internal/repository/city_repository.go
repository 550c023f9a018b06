package repository

import (
	"context"
	"database/sql"

	"github.com/ovale/guia-negocios/internal/model"
)

// CityRepo provides persistence for cities.  Cities are hard-deleted
// (model.CityDeletePolicy); the image host cleanup that follows a delete is
// the handler's concern.
type CityRepo struct{ db *sql.DB }

func NewCityRepo(db *sql.DB) *CityRepo { return &CityRepo{db: db} }

const cityCols = "id, name, slug, COALESCE(image,''), COALESCE(image_public_id,'')"

func scanCity(row interface{ Scan(...any) error }) (model.City, error) {
	var c model.City
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Image, &c.ImagePublicID)
	return c, err
}

// ListAll returns every city in name order.
func (r *CityRepo) ListAll(ctx context.Context) ([]model.City, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+cityCols+" FROM cities ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.City{}
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches a city by id.
func (r *CityRepo) GetByID(ctx context.Context, id uint64) (model.City, error) {
	c, err := scanCity(r.db.QueryRowContext(ctx,
		"SELECT "+cityCols+" FROM cities WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// GetBySlug fetches a city by its unique slug.
func (r *CityRepo) GetBySlug(ctx context.Context, slug string) (model.City, error) {
	c, err := scanCity(r.db.QueryRowContext(ctx,
		"SELECT "+cityCols+" FROM cities WHERE slug=? LIMIT 1", slug))
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// Create inserts a city.  A slug collision surfaces as *DuplicateError.
func (r *CityRepo) Create(ctx context.Context, c model.City) (model.City, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO cities (name, slug, image, image_public_id) VALUES (?,?,NULLIF(?,''),NULLIF(?,''))",
		c.Name, c.Slug, c.Image, c.ImagePublicID)
	if err != nil {
		if dup := asDuplicate(err); dup != nil {
			return model.City{}, dup
		}
		return model.City{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.City{}, err
	}
	c.ID = uint64(id)
	return c, nil
}

// CityUpdate carries the optional fields of an update; nil means "leave
// unchanged".
type CityUpdate struct {
	Name          *string
	Slug          *string
	Image         *string
	ImagePublicID *string
}

// Update applies the non-nil fields and returns the updated row.
func (r *CityRepo) Update(ctx context.Context, id uint64, u CityUpdate) (model.City, error) {
	set, args := buildSet([]field{
		{"name", u.Name},
		{"slug", u.Slug},
		{"image", u.Image},
		{"image_public_id", u.ImagePublicID},
	})
	if set != "" {
		args = append(args, id)
		res, err := r.db.ExecContext(ctx, "UPDATE cities SET "+set+" WHERE id=?", args...)
		if err != nil {
			if dup := asDuplicate(err); dup != nil {
				return model.City{}, dup
			}
			return model.City{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Either no such row or nothing changed; disambiguate below.
			if _, err := r.GetByID(ctx, id); err != nil {
				return model.City{}, err
			}
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the city and returns the deleted row so the caller can
// clean up the hosted image.
func (r *CityRepo) Delete(ctx context.Context, id uint64) (model.City, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return model.City{}, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM cities WHERE id=?", id); err != nil {
		return model.City{}, err
	}
	return c, nil
}

// Popular returns the cities most referenced by businesses, busiest first.
func (r *CityRepo) Popular(ctx context.Context, limit int) ([]model.PopularCity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, COALESCE(c.image,''), COUNT(b.id) AS total
		FROM businesses b
		JOIN cities c ON c.id = b.city_id
		GROUP BY c.id, c.name, c.slug, c.image
		ORDER BY total DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PopularCity{}
	for rows.Next() {
		var p model.PopularCity
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Image, &p.TotalBusinesses); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
