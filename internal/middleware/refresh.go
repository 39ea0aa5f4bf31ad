package middleware

import (
    "context"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-auth/internal/utils"
)

// RevocationChecker reports whether a live refresh-token record with
// the given id still belongs to the given user. It is injected rather
// than bound to the concrete repository so the verifier's control flow
// can be tested without a database.
type RevocationChecker func(ctx context.Context, tokenID, userID uint64) (bool, error)

// ValidateRefresh returns an Echo middleware that verifies the HS256
// refresh token from the refreshToken cookie and then consults the
// revocation checker. A token whose record is gone (revoked, rotated
// away, or expired server-side) is rejected exactly like a forged one.
// A checker failure (storage unavailable) also rejects: the revocation
// check fails closed, never open.
func ValidateRefresh(secret string, isLive RevocationChecker) echo.MiddlewareFunc {
    key := []byte(secret)
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cookie, err := c.Cookie("refreshToken")
            if err != nil || cookie.Value == "" {
                return unauthorized(c)
            }
            claims, err := utils.ParseRefreshToken(key, cookie.Value)
            if err != nil {
                return unauthorized(c)
            }
            uid, err := claims.SubjectID()
            if err != nil {
                return unauthorized(c)
            }
            // A refresh token without a record id is structurally
            // malformed and treated as revoked.
            if claims.TokenID == 0 {
                return unauthorized(c)
            }

            live, err := isLive(c.Request().Context(), claims.TokenID, uid)
            if err != nil || !live {
                return unauthorized(c)
            }

            c.Set(CtxUserID, uid)
            c.Set(CtxRole, claims.Role)
            c.Set(CtxTokenID, claims.TokenID)
            return next(c)
        }
    }
}
