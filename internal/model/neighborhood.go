package model

// Neighborhood represents a row in the `neighborhoods` table.  A
// neighborhood belongs to exactly one city and its slug is unique only
// within that city (the slug_city composite index).
type Neighborhood struct {
    ID     uint64 `json:"id"`
    Name   string `json:"name"`
    Slug   string `json:"slug"`
    CityID uint64 `json:"cityId"`

    // Joined display fields, populated on reads.
    CityName string `json:"cityName,omitempty"`
    CitySlug string `json:"citySlug,omitempty"`
}
