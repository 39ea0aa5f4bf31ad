// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver error strings themselves.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique
// index on users.email. The index, not the application-level lookup, is
// the real guarantee against duplicate registration; concurrent inserts
// both reach the database and one of them receives this error. Handlers
// translate it into an HTTP 400 with a specific message.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when an update or delete matched no row, or a
// lookup came back empty. Handlers translate this into an HTTP 404, or
// a 400 for a rotation whose subject no longer exists.
var ErrNotFound = errors.New("record not found")
