package repository

import (
	"context"
	"math"
	"strings"
)

// BusinessSearchQuery defines the resolved filters and pagination for the
// public search.  Slug resolution happens in the handler (an unresolvable
// city/neighborhood short-circuits to an empty result before this layer is
// reached); here every filter is already an id or a name fragment.
type BusinessSearchQuery struct {
	Name           string
	CityID         uint64
	NeighborhoodID uint64
	CategoryID     uint64
	SubCategoryID  uint64
	Page           int
	PerPage        int
	Random         bool
}

// Pagination is the metadata block attached to search responses.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes totalPages = ceil(total/perPage).
func NewPagination(page, perPage int, total int64) Pagination {
	pages := 0
	if perPage > 0 {
		pages = int(math.Ceil(float64(total) / float64(perPage)))
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: pages}
}

// Search runs the composed filter and returns one page of joined rows plus
// the total match count.
//
// Random mode draws a uniform sample without replacement (ORDER BY RAND())
// of one page and counts matches separately; consecutive calls are
// independent draws, so random mode has no stable pagination.  That is the
// product's chosen trade-off and the separate COUNT per call comes with it.
func (r *BusinessRepo) Search(ctx context.Context, q BusinessSearchQuery) ([]BusinessRow, int64, error) {
	where := []string{}
	args := []any{}

	if q.Name != "" {
		where = append(where, "LOWER(b.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.CityID != 0 {
		where = append(where, "b.city_id = ?")
		args = append(args, q.CityID)
	}
	if q.NeighborhoodID != 0 {
		where = append(where, "b.neighborhood_id = ?")
		args = append(args, q.NeighborhoodID)
	}
	if q.CategoryID != 0 {
		where = append(where, "b.category_id = ?")
		args = append(args, q.CategoryID)
	}
	if q.SubCategoryID != 0 {
		where = append(where, "b.sub_category_id = ?")
		args = append(args, q.SubCategoryID)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := "SELECT COUNT(*) FROM businesses b WHERE " + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := businessSelect + " WHERE " + cond
	argsData := append([]any{}, args...)
	if q.Random {
		dataSQL += " ORDER BY RAND() LIMIT ?"
		argsData = append(argsData, q.PerPage)
	} else {
		dataSQL += " LIMIT ? OFFSET ?"
		argsData = append(argsData, q.PerPage, (q.Page-1)*q.PerPage)
	}

	items, err := r.collect(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
