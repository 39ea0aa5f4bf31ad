package model

import "time"

// Role names stored in the users.role column.  The set is closed:
// admins manage the platform, managers run a single restaurant and
// customers place orders.  Self-service registration always produces
// a customer; the other roles are assigned by an admin.
const (
    RoleAdmin    = "admin"
    RoleManager  = "manager"
    RoleCustomer = "customer"
)

// ValidRole reports whether the given string is one of the known roles.
func ValidRole(role string) bool {
    return role == RoleAdmin || role == RoleManager || role == RoleCustomer
}

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column.  The json tags
// are omitted here because these structs are used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags so the password hash never leaks into a
// response by accident.
//
// Fields:
//  ID           – primary key identifier of the user.
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – unique email address (exact-match unique index).
//  PasswordHash – bcrypt hashed password.
//  Role         – one of RoleAdmin, RoleManager, RoleCustomer.
//  RestaurantID – restaurant the user manages (nullable; managers only).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    RestaurantID *uint64   // users.restaurant_id (nullable)
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
