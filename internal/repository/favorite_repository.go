package repository

import (
	"context"
	"database/sql"

	"github.com/ovale/guia-negocios/internal/model"
)

// FavoriteRepo provides persistence for favorites.  At-most-one favorite
// per (user, business) pair is enforced by the user_business unique index,
// not by application locking: of two concurrent inserts exactly one wins
// and the loser gets ErrAlreadyFavorited.
type FavoriteRepo struct{ db *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Create inserts a favorite and returns it.
func (r *FavoriteRepo) Create(ctx context.Context, userID, businessID uint64) (model.Favorite, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO favorites (user_id, business_id) VALUES (?,?)",
		userID, businessID)
	if err != nil {
		if asDuplicate(err) != nil {
			return model.Favorite{}, ErrAlreadyFavorited
		}
		return model.Favorite{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Favorite{}, err
	}

	var f model.Favorite
	err = r.db.QueryRowContext(ctx,
		"SELECT id, user_id, business_id, created_at FROM favorites WHERE id=? LIMIT 1",
		uint64(id)).Scan(&f.ID, &f.UserID, &f.BusinessID, &f.CreatedAt)
	return f, err
}

// DeleteOwned removes a favorite by id.  Non-admin callers may only remove
// their own; a missing row and a foreign row are indistinguishable to the
// caller (both ErrNotFound) so existence is not leaked.
func (r *FavoriteRepo) DeleteOwned(ctx context.Context, favoriteID, userID uint64, isAdmin bool) error {
	q := "DELETE FROM favorites WHERE id=?"
	args := []any{favoriteID}
	if !isAdmin {
		q += " AND user_id=?"
		args = append(args, userID)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns the user's favorites joined with the display fields of
// each business: name, slug, description, category name, city name and the
// first photo as cover.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]model.FavoriteWithBusiness, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.user_id, f.business_id, f.created_at,
		       b.id, b.name, b.slug, b.description,
		       COALESCE(ca.name,''), COALESCE(ci.name,''),
		       COALESCE((SELECT p.url FROM business_photos p
		                 WHERE p.business_id = b.id
		                 ORDER BY p.position LIMIT 1), '')
		FROM favorites f
		JOIN businesses b ON b.id = f.business_id
		LEFT JOIN categories ca ON ca.id = b.category_id
		LEFT JOIN cities ci ON ci.id = b.city_id
		WHERE f.user_id=?
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.FavoriteWithBusiness{}
	for rows.Next() {
		var fw model.FavoriteWithBusiness
		if err := rows.Scan(
			&fw.ID, &fw.UserID, &fw.BusinessID, &fw.CreatedAt,
			&fw.Business.ID, &fw.Business.Name, &fw.Business.Slug, &fw.Business.Description,
			&fw.Business.Category, &fw.Business.City, &fw.Business.Photo,
		); err != nil {
			return nil, err
		}
		out = append(out, fw)
	}
	return out, rows.Err()
}
