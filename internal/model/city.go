package model

// City represents a row in the `cities` table.  Cities anchor the
// geographic hierarchy: neighborhoods belong to a city and businesses
// reference both.  The slug is unique across all cities.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name (e.g. "São José dos Campos").
//  Slug          – URL-safe identifier derived from Name.
//  Image         – public URL of the city image on the image host.
//  ImagePublicID – image host reference kept for later deletion.
type City struct {
    ID            uint64 `json:"id"`
    Name          string `json:"name"`
    Slug          string `json:"slug"`
    Image         string `json:"image,omitempty"`
    ImagePublicID string `json:"imagePublicId,omitempty"`
}

// PopularCity is a city ranked by how many businesses reference it.
type PopularCity struct {
    ID              uint64 `json:"id"`
    Name            string `json:"name"`
    Slug            string `json:"slug"`
    Image           string `json:"image,omitempty"`
    TotalBusinesses int64  `json:"totalBusinesses"`
}
