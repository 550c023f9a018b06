package utils

import "github.com/gosimple/slug"

// Slugify derives the URL identifier for a display name: lowercase,
// accents stripped, only [a-z0-9-], no leading/trailing/double hyphens.
// Deterministic and idempotent.  Uniqueness is NOT enforced here; the
// store's unique index rejects collisions and the handler reports the
// conflicting field.
func Slugify(name string) string {
	return slug.Make(name)
}
