package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		total      int64
		perPage    int
		totalPages int
	}{
		{0, 9, 0},
		{1, 9, 1},
		{9, 9, 1},
		{10, 9, 2},
		{20, 9, 3}, // page 3 holds the trailing 2 items
		{20, 0, 0},
	}
	for _, tc := range cases {
		p := NewPagination(1, tc.perPage, tc.total)
		if p.TotalPages != tc.totalPages {
			t.Errorf("NewPagination(total=%d, perPage=%d).TotalPages = %d, want %d",
				tc.total, tc.perPage, p.TotalPages, tc.totalPages)
		}
		if p.Total != tc.total {
			t.Errorf("Total = %d, want %d", p.Total, tc.total)
		}
	}
}

func TestSearchPagedQueryShape(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewBusinessRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM businesses b WHERE LOWER(b.name) LIKE ? AND b.city_id = ?")).
		WithArgs("%padaria%", uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(20))
	// Page 3 of 20@9: OFFSET 18, LIMIT 9.
	mock.ExpectQuery(`LOWER\(b\.name\) LIKE \? AND b\.city_id = \? LIMIT \? OFFSET \?`).
		WithArgs("%padaria%", uint64(3), 9, 18).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	items, total, err := repo.Search(context.Background(), BusinessSearchQuery{
		Name:    "Padaria",
		CityID:  3,
		Page:    3,
		PerPage: 9,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 20 {
		t.Errorf("total = %d, want 20", total)
	}
	if len(items) != 0 {
		t.Errorf("items = %d, want 0 (empty fixture)", len(items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSearchRandomUsesSampling(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewBusinessRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM businesses b WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(50))
	mock.ExpectQuery(`ORDER BY RAND\(\) LIMIT \?`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.Search(context.Background(), BusinessSearchQuery{
		Page:    1,
		PerPage: 9,
		Random:  true,
	})
	if err != nil {
		t.Fatalf("Search random: %v", err)
	}
	if total != 50 {
		t.Errorf("total = %d, want 50", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
