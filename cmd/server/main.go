package main

import (
    "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/iliyamo/restaurant-auth/internal/config"
    "github.com/iliyamo/restaurant-auth/internal/database"
    "github.com/iliyamo/restaurant-auth/internal/handler"
    "github.com/iliyamo/restaurant-auth/internal/middleware"
    "github.com/iliyamo/restaurant-auth/internal/repository"
    "github.com/iliyamo/restaurant-auth/internal/router"
    "github.com/iliyamo/restaurant-auth/internal/session"
    "github.com/iliyamo/restaurant-auth/internal/utils"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer func() { _ = db.Close() }()

    users := repository.NewUserRepo(db)
    restaurants := repository.NewRestaurantRepo(db)
    refreshTTL := time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour
    tokens := repository.NewTokenRepo(db, refreshTTL)

    signer := utils.NewSigner(cfg.AccessPrivateKey, cfg.RefreshSecret,
        time.Duration(cfg.AccessTTLMin)*time.Minute, refreshTTL)
    sessions := session.NewManager(signer, tokens, users, cfg.CookieDomain)

    jwks, err := utils.NewJWKSet(cfg.AccessPublicKey)
    if err != nil {
        log.Fatalf("jwks: %v", err)
    }

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting and caching disabled")
    }
    limit := middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb)
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Logger())
    e.Use(echomw.Recover())

    authHandler := handler.NewAuthHandler(users, sessions, cfg.BcryptCost)
    userHandler := handler.NewUserHandler(users, cfg.BcryptCost)
    restaurantHandler := handler.NewRestaurantHandler(restaurants)

    router.RegisterRoutes(e, handler.JWKS(jwks))
    router.RegisterAuth(e, authHandler, cfg.AccessPublicKey, cfg.RefreshSecret, tokens.Exists, limit)
    router.RegisterAdmin(e, userHandler, restaurantHandler, cfg.AccessPublicKey)
    router.RegisterPublic(e, restaurantHandler, cache)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
