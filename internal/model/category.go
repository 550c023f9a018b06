package model

// Category represents a row in the `categories` table.  Slug is unique.
type Category struct {
    ID   uint64 `json:"id"`
    Name string `json:"name"`
    Slug string `json:"slug"`
    Icon string `json:"icon,omitempty"`
}
