package model

import "time"

// SubCategory represents a row in the `sub_categories` table.  A
// subcategory belongs to one category.  Uniqueness is enforced twice:
// the slug is globally unique and (name, category) is unique with a
// case-insensitive collation so "Pizzaria" and "pizzaria" collide.
//
// SubCategories are soft-deleted: Active=false hides them from public
// listings while keeping the row so a later create with the same name
// reactivates it instead of erroring.
type SubCategory struct {
    ID         uint64    `json:"id"`
    Name       string    `json:"name"`
    Slug       string    `json:"slug"`
    Icon       string    `json:"icon,omitempty"`
    CategoryID uint64    `json:"categoryId"`
    Active     bool      `json:"active"`
    CreatedAt  time.Time `json:"createdAt"`
    UpdatedAt  time.Time `json:"updatedAt"`

    // Joined display fields, populated on reads.
    CategoryName string `json:"categoryName,omitempty"`
    CategorySlug string `json:"categorySlug,omitempty"`
}
