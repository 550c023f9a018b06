// Package queue defines message payloads exchanged over the message broker.
package queue

// ListingCreatedEvent is published when a business listing is created.  It
// carries enough denormalized detail for downstream consumers to log or
// notify without querying the primary database.
type ListingCreatedEvent struct {
	BusinessID   uint64 `json:"business_id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	CityName     string `json:"city_name"`
	CategoryName string `json:"category_name"`
	OwnerID      uint64 `json:"owner_id"`
	OwnerName    string `json:"owner_name"`
	PhotoCount   int    `json:"photo_count"`
	CreatedAt    string `json:"created_at"`
}
