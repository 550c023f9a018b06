package repository

import (
	"errors"
	"testing"
)

func TestAsDuplicateFieldExtraction(t *testing.T) {
	cases := []struct {
		msg   string
		field string
	}{
		{"Error 1062 (23000): Duplicate entry 'sao-paulo' for key 'cities.slug'", "slug"},
		{"Error 1062 (23000): Duplicate entry 'a@b.com' for key 'users.email'", "email"},
		// Composite indexes report their leading column.
		{"Error 1062 (23000): Duplicate entry 'centro-3' for key 'neighborhoods.slug_city'", "slug"},
		{"Error 1062 (23000): Duplicate entry '1-2' for key 'favorites.user_business'", "user"},
		{"Error 1062 (23000): Duplicate entry 'Pizzaria-4' for key 'sub_categories.name_category'", "name"},
	}
	for _, tc := range cases {
		dup := asDuplicate(errors.New(tc.msg))
		if dup == nil {
			t.Fatalf("asDuplicate(%q) = nil, want field %q", tc.msg, tc.field)
		}
		if dup.Field != tc.field {
			t.Errorf("asDuplicate(%q).Field = %q, want %q", tc.msg, dup.Field, tc.field)
		}
	}
}

func TestAsDuplicateIgnoresOtherErrors(t *testing.T) {
	if dup := asDuplicate(nil); dup != nil {
		t.Fatalf("asDuplicate(nil) = %v", dup)
	}
	if dup := asDuplicate(errors.New("Error 1452 (23000): foreign key constraint fails")); dup != nil {
		t.Fatalf("asDuplicate(non-1062) = %v, want nil", dup)
	}
}
