package model

import "time"

// Address groups the location fields of a business.  City and
// neighborhood are references; their existence is checked read-then-write
// at creation time, not by the store.
type Address struct {
    Street         string `json:"street"`
    Number         string `json:"number"`
    CityID         uint64 `json:"cityId"`
    NeighborhoodID uint64 `json:"neighborhoodId"`
}

// Business represents a row in the `businesses` table plus its ordered
// photo URLs from `business_photos`.  Lat/Lng are stored as strings, the
// way the mobile clients submit them.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name; Slug is derived from it and unique.
//  Description – free text, required.
//  Phone       – required contact number; Whatsapp optional.
//  Address     – street, number and city/neighborhood references.
//  Photos      – public URLs on the image host, in display order.
//  OwnerID     – user who registered the business.
type Business struct {
    ID            uint64   `json:"id"`
    Name          string   `json:"name"`
    Description   string   `json:"description"`
    Phone         string   `json:"phone"`
    Whatsapp      string   `json:"whatsapp,omitempty"`
    Site          string   `json:"site,omitempty"`
    Instagram     string   `json:"instagram,omitempty"`
    Facebook      string   `json:"facebook,omitempty"`
    Linkedin      string   `json:"linkedin,omitempty"`
    Twitter       string   `json:"twitter,omitempty"`
    Tiktok        string   `json:"tiktok,omitempty"`
    Video         string   `json:"video,omitempty"`
    Address       Address  `json:"address"`
    Lat           string   `json:"lat,omitempty"`
    Lng           string   `json:"long,omitempty"`
    CategoryID    uint64   `json:"categoryId"`
    SubCategoryID uint64   `json:"subCategoryId"`
    OwnerID       uint64   `json:"ownerId"`
    Photos        []string `json:"photos"`
    Slug          string   `json:"slug"`

    CreatedAt time.Time `json:"createdAt"`
}
