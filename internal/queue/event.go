// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published when a new account is created,
// either by self-service registration or by an admin. Downstream
// consumers (welcome mail, analytics) get enough to act without
// querying the primary database.
type UserRegisteredEvent struct {
    UserID       uint64  `json:"user_id"`
    Email        string  `json:"email"`
    FirstName    string  `json:"first_name"`
    LastName     string  `json:"last_name"`
    Role         string  `json:"role"`
    RestaurantID *uint64 `json:"restaurant_id,omitempty"`
    RegisteredAt string  `json:"registered_at"`
}

// SessionRevokedEvent is published when a refresh-token record is
// destroyed by logout, letting audit consumers track session endings.
type SessionRevokedEvent struct {
    UserID    uint64 `json:"user_id"`
    TokenID   uint64 `json:"token_id"`
    RevokedAt string `json:"revoked_at"`
}
