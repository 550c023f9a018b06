package model

import "time"

// Favorite links one user to one business.  The user_business unique index
// makes double-favoriting structurally impossible even under concurrent
// requests; the losing insert surfaces as a duplicate-key error.
type Favorite struct {
    ID         uint64    `json:"id"`
    UserID     uint64    `json:"user"`
    BusinessID uint64    `json:"business"`
    CreatedAt  time.Time `json:"createdAt"`
}

// FavoriteWithBusiness is a favorite joined with the display fields of the
// referenced business, returned by the list endpoint.
type FavoriteWithBusiness struct {
    Favorite
    Business FavoriteBusiness `json:"businessData"`
}

// FavoriteBusiness carries the selected business fields shown on the
// favorites page.
type FavoriteBusiness struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Slug        string `json:"slug"`
    Description string `json:"description"`
    Photo       string `json:"photo,omitempty"`
    Category    string `json:"category,omitempty"`
    City        string `json:"city,omitempty"`
}
