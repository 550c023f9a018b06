package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ovale/guia-negocios/internal/model"
)

// BusinessRepo provides persistence for businesses and their photo lists.
// Businesses are hard-deleted; business_photos cascade with the row.
type BusinessRepo struct{ db *sql.DB }

func NewBusinessRepo(db *sql.DB) *BusinessRepo { return &BusinessRepo{db: db} }

// BusinessRow is a business joined with the display fields of its related
// entities, returned by all read paths.
type BusinessRow struct {
	model.Business

	CityName         string `json:"cityName"`
	CitySlug         string `json:"citySlug"`
	NeighborhoodName string `json:"neighborhoodName"`
	NeighborhoodSlug string `json:"neighborhoodSlug"`
	CategoryName     string `json:"categoryName"`
	CategorySlug     string `json:"categorySlug"`
	SubCategoryName  string `json:"subCategoryName"`
	SubCategorySlug  string `json:"subCategorySlug"`
	OwnerName        string `json:"ownerName"`
}

const businessSelect = `
	SELECT b.id, b.name, b.description, b.phone,
	       COALESCE(b.whatsapp,''), COALESCE(b.site,''),
	       COALESCE(b.instagram,''), COALESCE(b.facebook,''),
	       COALESCE(b.linkedin,''), COALESCE(b.twitter,''),
	       COALESCE(b.tiktok,''), COALESCE(b.video,''),
	       b.street, b.number, b.city_id, b.neighborhood_id,
	       COALESCE(b.lat,''), COALESCE(b.lng,''),
	       b.category_id, b.sub_category_id, b.owner_id, b.slug, b.created_at,
	       COALESCE(ci.name,''), COALESCE(ci.slug,''),
	       COALESCE(n.name,''), COALESCE(n.slug,''),
	       COALESCE(ca.name,''), COALESCE(ca.slug,''),
	       COALESCE(s.name,''), COALESCE(s.slug,''),
	       COALESCE(u.name,'')
	FROM businesses b
	LEFT JOIN cities ci ON ci.id = b.city_id
	LEFT JOIN neighborhoods n ON n.id = b.neighborhood_id
	LEFT JOIN categories ca ON ca.id = b.category_id
	LEFT JOIN sub_categories s ON s.id = b.sub_category_id
	LEFT JOIN users u ON u.id = b.owner_id`

func scanBusinessRow(row interface{ Scan(...any) error }) (BusinessRow, error) {
	var b BusinessRow
	err := row.Scan(
		&b.ID, &b.Name, &b.Description, &b.Phone,
		&b.Whatsapp, &b.Site, &b.Instagram, &b.Facebook,
		&b.Linkedin, &b.Twitter, &b.Tiktok, &b.Video,
		&b.Address.Street, &b.Address.Number, &b.Address.CityID, &b.Address.NeighborhoodID,
		&b.Lat, &b.Lng,
		&b.CategoryID, &b.SubCategoryID, &b.OwnerID, &b.Slug, &b.CreatedAt,
		&b.CityName, &b.CitySlug,
		&b.NeighborhoodName, &b.NeighborhoodSlug,
		&b.CategoryName, &b.CategorySlug,
		&b.SubCategoryName, &b.SubCategorySlug,
		&b.OwnerName,
	)
	return b, err
}

// loadPhotos attaches the ordered photo URLs of each returned business.
// One IN query for the whole page instead of a query per row.
func (r *BusinessRepo) loadPhotos(ctx context.Context, items []BusinessRow) error {
	if len(items) == 0 {
		return nil
	}
	idx := make(map[uint64]*BusinessRow, len(items))
	args := make([]any, 0, len(items))
	placeholders := ""
	for i := range items {
		items[i].Photos = []string{}
		idx[items[i].ID] = &items[i]
		args = append(args, items[i].ID)
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT business_id, url FROM business_photos WHERE business_id IN ("+placeholders+") ORDER BY business_id, position",
		args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var url string
		if err := rows.Scan(&id, &url); err != nil {
			return err
		}
		if b, ok := idx[id]; ok {
			b.Photos = append(b.Photos, url)
		}
	}
	return rows.Err()
}

// Create inserts the business and its photos in one transaction.  A slug
// collision surfaces as *DuplicateError.
func (r *BusinessRepo) Create(ctx context.Context, b model.Business) (BusinessRow, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return BusinessRow{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO businesses
			(name, description, phone, whatsapp, site, instagram, facebook,
			 linkedin, twitter, tiktok, video, street, number, city_id,
			 neighborhood_id, lat, lng, category_id, sub_category_id, owner_id, slug)
		VALUES (?,?,?,NULLIF(?,''),NULLIF(?,''),NULLIF(?,''),NULLIF(?,''),
		        NULLIF(?,''),NULLIF(?,''),NULLIF(?,''),NULLIF(?,''),?,?,?,
		        ?,NULLIF(?,''),NULLIF(?,''),?,?,?,?)`,
		b.Name, b.Description, b.Phone, b.Whatsapp, b.Site, b.Instagram, b.Facebook,
		b.Linkedin, b.Twitter, b.Tiktok, b.Video, b.Address.Street, b.Address.Number,
		b.Address.CityID, b.Address.NeighborhoodID, b.Lat, b.Lng,
		b.CategoryID, b.SubCategoryID, b.OwnerID, b.Slug)
	if err != nil {
		if dup := asDuplicate(err); dup != nil {
			return BusinessRow{}, dup
		}
		return BusinessRow{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return BusinessRow{}, err
	}
	for i, url := range b.Photos {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO business_photos (business_id, position, url) VALUES (?,?,?)",
			uint64(id), i, url); err != nil {
			return BusinessRow{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return BusinessRow{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

func (r *BusinessRepo) GetByID(ctx context.Context, id uint64) (BusinessRow, error) {
	b, err := scanBusinessRow(r.db.QueryRowContext(ctx, businessSelect+" WHERE b.id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return b, ErrNotFound
	}
	if err != nil {
		return b, err
	}
	items := []BusinessRow{b}
	if err := r.loadPhotos(ctx, items); err != nil {
		return b, err
	}
	return items[0], nil
}

func (r *BusinessRepo) GetBySlug(ctx context.Context, slug string) (BusinessRow, error) {
	b, err := scanBusinessRow(r.db.QueryRowContext(ctx, businessSelect+" WHERE b.slug=? LIMIT 1", slug))
	if err == sql.ErrNoRows {
		return b, ErrNotFound
	}
	if err != nil {
		return b, err
	}
	items := []BusinessRow{b}
	if err := r.loadPhotos(ctx, items); err != nil {
		return b, err
	}
	return items[0], nil
}

func (r *BusinessRepo) collect(ctx context.Context, q string, args ...any) ([]BusinessRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BusinessRow{}
	for rows.Next() {
		b, err := scanBusinessRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadPhotos(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every business with joined display data.
func (r *BusinessRepo) ListAll(ctx context.Context) ([]BusinessRow, error) {
	return r.collect(ctx, businessSelect)
}

// Latest returns the most recently registered businesses.
func (r *BusinessRepo) Latest(ctx context.Context, limit int) ([]BusinessRow, error) {
	return r.collect(ctx, businessSelect+" ORDER BY b.created_at DESC LIMIT ?", limit)
}

// CreationDate is a minimal projection used by the by-date listing.
type CreationDate struct {
	ID        uint64    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// ByDate returns every business creation timestamp in ascending order.
func (r *BusinessRepo) ByDate(ctx context.Context) ([]CreationDate, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, created_at FROM businesses ORDER BY created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CreationDate{}
	for rows.Next() {
		var d CreationDate
		if err := rows.Scan(&d.ID, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DashboardStats holds the admin dashboard counters.
type DashboardStats struct {
	TotalBusinesses int64 `json:"totalBusinesses"`
	TotalCities     int64 `json:"totalCities"`
	TotalCategories int64 `json:"totalCategories"`
}

// Stats counts businesses, cities and categories for the dashboard.
func (r *BusinessRepo) Stats(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	err := r.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM businesses),
		       (SELECT COUNT(*) FROM cities),
		       (SELECT COUNT(*) FROM categories)`).
		Scan(&s.TotalBusinesses, &s.TotalCities, &s.TotalCategories)
	return s, err
}

// RecentBusiness is the trimmed projection shown on the dashboard's
// recent-registrations card.
type RecentBusiness struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Photo     string    `json:"photo,omitempty"`
	CityName  string    `json:"cityName,omitempty"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recent returns the newest registrations with cover photo, city and
// category names.
func (r *BusinessRepo) Recent(ctx context.Context, limit int) ([]RecentBusiness, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.slug,
		       COALESCE((SELECT p.url FROM business_photos p
		                 WHERE p.business_id = b.id
		                 ORDER BY p.position LIMIT 1), ''),
		       COALESCE(ci.name,''), COALESCE(ca.name,''), b.created_at
		FROM businesses b
		LEFT JOIN cities ci ON ci.id = b.city_id
		LEFT JOIN categories ca ON ca.id = b.category_id
		ORDER BY b.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RecentBusiness{}
	for rows.Next() {
		var rb RecentBusiness
		if err := rows.Scan(&rb.ID, &rb.Name, &rb.Slug, &rb.Photo, &rb.CityName, &rb.Category, &rb.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rb)
	}
	return out, rows.Err()
}

// BusinessUpdate carries the optional scalar fields of an update; nil
// means "leave unchanged".  Photo handling lives in ReplacePhotos /
// AppendPhotos / RemovePhoto.
type BusinessUpdate struct {
	Name           *string
	Slug           *string
	Description    *string
	Phone          *string
	Whatsapp       *string
	Site           *string
	Instagram      *string
	Facebook       *string
	Linkedin       *string
	Twitter        *string
	Tiktok         *string
	Video          *string
	Street         *string
	Number         *string
	CityID         *uint64
	NeighborhoodID *uint64
	Lat            *string
	Lng            *string
	CategoryID     *uint64
	SubCategoryID  *uint64
}

func (r *BusinessRepo) Update(ctx context.Context, id uint64, u BusinessUpdate) (BusinessRow, error) {
	set, args := buildSet([]field{
		{"name", u.Name},
		{"slug", u.Slug},
		{"description", u.Description},
		{"phone", u.Phone},
		{"whatsapp", u.Whatsapp},
		{"site", u.Site},
		{"instagram", u.Instagram},
		{"facebook", u.Facebook},
		{"linkedin", u.Linkedin},
		{"twitter", u.Twitter},
		{"tiktok", u.Tiktok},
		{"video", u.Video},
		{"street", u.Street},
		{"number", u.Number},
		{"city_id", u.CityID},
		{"neighborhood_id", u.NeighborhoodID},
		{"lat", u.Lat},
		{"lng", u.Lng},
		{"category_id", u.CategoryID},
		{"sub_category_id", u.SubCategoryID},
	})
	if set != "" {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, "UPDATE businesses SET "+set+" WHERE id=?", args...); err != nil {
			if dup := asDuplicate(err); dup != nil {
				return BusinessRow{}, dup
			}
			return BusinessRow{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// ReplacePhotos swaps the whole photo list.
func (r *BusinessRepo) ReplacePhotos(ctx context.Context, id uint64, urls []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM business_photos WHERE business_id=?", id); err != nil {
		return err
	}
	for i, url := range urls {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO business_photos (business_id, position, url) VALUES (?,?,?)",
			id, i, url); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AppendPhotos adds photos after the current highest position.
func (r *BusinessRepo) AppendPhotos(ctx context.Context, id uint64, urls []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	var next int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position)+1, 0) FROM business_photos WHERE business_id=?", id).Scan(&next); err != nil {
		return err
	}
	for i, url := range urls {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO business_photos (business_id, position, url) VALUES (?,?,?)",
			id, next+i, url); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RemovePhoto drops one photo by URL.  Returns ErrNotFound when the URL is
// not attached to the business.
func (r *BusinessRepo) RemovePhoto(ctx context.Context, id uint64, url string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM business_photos WHERE business_id=? AND url=?", id, url)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the business and returns its photo URLs so the caller can
// clean up the image host.  Photos and favorites cascade at the store.
func (r *BusinessRepo) Delete(ctx context.Context, id uint64) ([]string, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM businesses WHERE id=?", id); err != nil {
		return nil, err
	}
	return b.Photos, nil
}
