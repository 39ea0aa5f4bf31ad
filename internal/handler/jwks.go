package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-auth/internal/utils"
)

// JWKS serves the access-token verification key as a JWK set. The
// document is built once at startup; other services fetch it from
// /.well-known/jwks.json to verify access tokens on their own.
func JWKS(set utils.JWKSet) echo.HandlerFunc {
    return func(c echo.Context) error {
        return c.JSON(http.StatusOK, set)
    }
}
