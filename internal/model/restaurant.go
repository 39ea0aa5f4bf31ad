package model

import "time"

// Restaurant represents a tenant on the platform.  A restaurant can
// be referenced by any number of manager users.  This struct
// corresponds to a row in the `restaurants` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the restaurant.
//  Address   – street address.
//  CreatedAt – timestamp when the restaurant was created.
//  UpdatedAt – timestamp of last update.
type Restaurant struct {
    ID        uint64    // restaurants.id
    Name      string    // restaurants.name
    Address   string    // restaurants.address
    CreatedAt time.Time // restaurants.created_at
    UpdatedAt time.Time // restaurants.updated_at
}
