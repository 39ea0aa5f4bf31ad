package router // package router defines how HTTP routes are registered for the API

import (
    "crypto/rsa"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-auth/internal/handler"
    "github.com/iliyamo/restaurant-auth/internal/middleware"
    "github.com/iliyamo/restaurant-auth/internal/model"
)

// RegisterRoutes registers the routes that carry no authentication at
// all: the health check and the published verification key set.
func RegisterRoutes(e *echo.Echo, jwks echo.HandlerFunc) {
    e.GET("/healthz", handler.Health)
    e.GET("/.well-known/jwks.json", jwks)
}

// RegisterAuth registers the token lifecycle endpoints under /auth.
// Register and login face unauthenticated callers and sit behind the
// rate limiter; refresh and logout run behind the refresh verifier so
// the revocation check has already passed when the handler executes.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, pub *rsa.PublicKey, refreshSecret string, isLive middleware.RevocationChecker, limit echo.MiddlewareFunc) {
    g := e.Group("/auth")
    g.POST("/register", a.Register, limit)
    g.POST("/login", a.Login, limit)

    validate := middleware.ValidateRefresh(refreshSecret, isLive)
    g.POST("/refresh", a.Refresh, validate)
    g.POST("/logout", a.Logout, middleware.Authenticate(pub), validate)

    g.GET("/self", a.Self, middleware.Authenticate(pub))
}

// RegisterAdmin registers user management and restaurant writes, all of
// which require an authenticated admin.
func RegisterAdmin(e *echo.Echo, u *handler.UserHandler, r *handler.RestaurantHandler, pub *rsa.PublicKey) {
    adminOnly := []echo.MiddlewareFunc{
        middleware.Authenticate(pub),
        middleware.RequireRole(model.RoleAdmin),
    }

    users := e.Group("/users", adminOnly...)
    users.POST("", u.Create)
    users.GET("", u.List)
    users.GET("/:id", u.Get)
    users.PATCH("/:id", u.Update)
    users.DELETE("/:id", u.Delete)

    restaurants := e.Group("/restaurants", adminOnly...)
    restaurants.POST("", r.Create)
    restaurants.PATCH("/:id", r.Update)
    restaurants.DELETE("/:id", r.Delete)
}

// RegisterPublic registers the unauthenticated restaurant reads behind
// the response cache.
func RegisterPublic(e *echo.Echo, r *handler.RestaurantHandler, cache echo.MiddlewareFunc) {
    e.GET("/restaurants", r.List, cache)
    e.GET("/restaurants/:id", r.Get, cache)
}
