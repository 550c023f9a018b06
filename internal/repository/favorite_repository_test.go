package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFavoriteCreateDuplicateLoses(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewFavoriteRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorites (user_id, business_id) VALUES (?,?)")).
		WithArgs(uint64(1), uint64(2)).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '1-2' for key 'favorites.user_business'"))

	_, err = repo.Create(context.Background(), 1, 2)
	if err != ErrAlreadyFavorited {
		t.Fatalf("Create duplicate = %v, want ErrAlreadyFavorited", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeleteOwnedScopesToRequester(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewFavoriteRepo(db)

	// Non-admin delete of someone else's favorite: the user_id predicate
	// matches nothing, so the caller learns only "not found".
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites WHERE id=? AND user_id=?")).
		WithArgs(uint64(7), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteOwned(context.Background(), 7, 42, false); err != ErrNotFound {
		t.Fatalf("DeleteOwned foreign favorite = %v, want ErrNotFound", err)
	}

	// Admin path: no ownership predicate.
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites WHERE id=?")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteOwned(context.Background(), 7, 42, true); err != nil {
		t.Fatalf("DeleteOwned admin = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
