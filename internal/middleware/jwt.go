package middleware // middleware contains reusable HTTP middleware functions

import (
    "crypto/rsa"
    "net/http"

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/restaurant-auth/internal/utils"
)

// Context keys populated by the verifiers for downstream handlers.
const (
    CtxUserID       = "user_id"
    CtxRole         = "role"
    CtxRestaurantID = "restaurant_id"
    CtxTokenID      = "token_id"
)

// Authenticate returns an Echo middleware that validates the RS256
// access token carried in the accessToken cookie and injects the
// decoded claims into the request context. Every failure mode (missing
// cookie, bad signature, wrong algorithm, expired, wrong issuer) maps
// to the same 401 body so callers learn nothing about which check
// tripped.
func Authenticate(pub *rsa.PublicKey) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cookie, err := c.Cookie("accessToken")
            if err != nil || cookie.Value == "" {
                return unauthorized(c)
            }
            claims, err := utils.ParseAccessToken(pub, cookie.Value)
            if err != nil {
                return unauthorized(c)
            }
            uid, err := claims.SubjectID()
            if err != nil {
                return unauthorized(c)
            }

            // Expose identity to handlers and the role gate.
            c.Set(CtxUserID, uid)
            c.Set(CtxRole, claims.Role)
            if claims.RestaurantID != "" {
                c.Set(CtxRestaurantID, claims.RestaurantID)
            }
            return next(c)
        }
    }
}

func unauthorized(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
