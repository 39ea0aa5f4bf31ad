package handler // handler defines the HTTP handlers of the service

import (
    "context"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-auth/internal/middleware"
    "github.com/iliyamo/restaurant-auth/internal/model"
    "github.com/iliyamo/restaurant-auth/internal/session"
)

// UserStore is the slice of the user repository the handlers depend
// on. *repository.UserRepo satisfies it; handler tests substitute an
// in-memory fake.
type UserStore interface {
    Create(ctx context.Context, firstName, lastName, email, password, role string, restaurantID *uint64, cost int) (uint64, error)
    GetByEmail(ctx context.Context, email string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
    List(ctx context.Context, q, role string, page, items int) ([]model.User, int, error)
    Update(ctx context.Context, id uint64, firstName, lastName, role string, restaurantID *uint64) error
    Delete(ctx context.Context, id uint64) error
}

// SessionManager is the slice of the session manager the handlers
// depend on. Declared here so handler tests can substitute a fake
// without a database or signing keys.
type SessionManager interface {
    Issue(ctx context.Context, u model.User) (session.TokenPair, error)
    Rotate(ctx context.Context, oldTokenID, userID uint64) (model.User, session.TokenPair, error)
    Revoke(ctx context.Context, tokenID uint64) error
    Cookies(p session.TokenPair) (*http.Cookie, *http.Cookie)
    ClearCookies() (*http.Cookie, *http.Cookie)
}

// getUserID extracts the verified user id placed in context by the
// token verifiers.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get(middleware.CtxUserID).(type) {
    case uint64:
        return t, nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
    return strconv.ParseUint(c.Param("id"), 10, 64)
}

// atoiDefault parses a positive integer query parameter, falling back
// to def on anything unusable.
func atoiDefault(s string, def int) int {
    n, err := strconv.Atoi(s)
    if err != nil || n < 1 {
        return def
    }
    return n
}
