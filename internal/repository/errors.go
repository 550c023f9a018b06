// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow handlers to distinguish
// between failure scenarios: ErrNotFound maps to 404, ErrForbidden to a
// 404-shaped response for ownership-scoped deletes (no existence leak),
// and DuplicateError to a 400 naming the conflicting field.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a referenced id or slug does not resolve
// to a row.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyFavorited is returned when a favorite insert loses against the
// user_business unique index.  The losing side of two concurrent inserts
// gets this instead of a silent duplicate.
var ErrAlreadyFavorited = errors.New("business already favorited")

// DuplicateError reports a violated unique index.  Field carries the index
// name so the client learns which field conflicted (e.g. "slug", "email").
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// asDuplicate translates a MySQL 1062 error into a DuplicateError, pulling
// the field name out of the driver message, which looks like:
//
//	Error 1062 (23000): Duplicate entry 'sao-paulo' for key 'cities.slug'
//
// Composite index names (slug_city, user_business, name_category) are
// reported under the leading field.  Returns nil when err is not a
// duplicate-key error.
func asDuplicate(err error) *DuplicateError {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if !strings.Contains(msg, "1062") {
		return nil
	}
	key := msg
	if i := strings.LastIndex(msg, "for key '"); i >= 0 {
		key = msg[i+len("for key '"):]
		key = strings.TrimSuffix(strings.TrimSpace(key), "'")
	}
	// Strip the table qualifier MySQL 8 prepends ("cities.slug" -> "slug").
	if i := strings.LastIndex(key, "."); i >= 0 {
		key = key[i+1:]
	}
	// Composite keys report their first column.
	if i := strings.Index(key, "_"); i >= 0 {
		key = key[:i]
	}
	if key == "" {
		key = "unknown"
	}
	return &DuplicateError{Field: key}
}
