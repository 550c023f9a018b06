package model

// DeletePolicy names how an entity leaves the system.  The distinction is
// inconsistent across entities on purpose: it mirrors product behavior, and
// making it an explicit property keeps each repository honest about which
// statement its Delete method may run.
type DeletePolicy string

const (
    // DeleteHard removes the row.  Dependent rows either cascade
    // (business photos, favorites of a business) or are expected to be
    // absent.
    DeleteHard DeletePolicy = "hard"
    // DeleteSoft flips the entity's active flag and keeps the row.
    DeleteSoft DeletePolicy = "soft"
)

// Per-entity policy.  SubCategory additionally supports an admin-only hard
// delete on a separate route.
const (
    CityDeletePolicy         = DeleteHard
    NeighborhoodDeletePolicy = DeleteHard
    CategoryDeletePolicy     = DeleteHard
    SubCategoryDeletePolicy  = DeleteSoft
    BusinessDeletePolicy     = DeleteHard
    UserDeletePolicy         = DeleteSoft
    FavoriteDeletePolicy     = DeleteHard
)
