package config // package config loads application configuration from environment variables

import (
    "crypto/rsa" // rsa key types held by the loaded configuration
    "log"        // log is used to report configuration errors and halt execution
    "os"         // os provides access to environment variables
    "strconv"    // strconv converts strings to other types

    "github.com/golang-jwt/jwt/v5" // PEM parsing helpers for the RSA signing key
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Signing material is parsed once here and
// carried as immutable values; business logic never touches the process
// environment.  A missing or malformed key is fatal at startup: the
// process must not serve requests it cannot sign or verify.
type Config struct {
    Env              string          // application environment (e.g. "dev", "prod")
    Port             string          // HTTP port to listen on
    DBUser           string          // database username
    DBPass           string          // database password (optional)
    DBHost           string          // database host address
    DBPort           string          // database port number
    DBName           string          // database name
    AccessPrivateKey *rsa.PrivateKey // RS256 private key for access tokens
    AccessPublicKey  *rsa.PublicKey  // counterpart public key used by verifiers
    RefreshSecret    string          // HS256 secret for refresh tokens
    CookieDomain     string          // domain attribute on the auth cookies
    AccessTTLMin     int             // access token time-to-live in minutes
    RefreshTTLDays   int             // refresh token time-to-live in days (fixed-day offset)
    BcryptCost       int             // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:              must("APP_ENV"),
        Port:             must("APP_PORT"),
        DBUser:           must("DB_USER"),
        DBPass:           os.Getenv("DB_PASS"), // empty allowed
        DBHost:           must("DB_HOST"),
        DBPort:           must("DB_PORT"),
        DBName:           must("DB_NAME"),
        AccessPrivateKey: mustPrivateKey("JWT_PRIVATE_KEY_FILE"),
        AccessPublicKey:  nil, // filled below; see publicFrom
        RefreshSecret:    must("REFRESH_TOKEN_SECRET"),
        CookieDomain:     must("COOKIE_DOMAIN"),
        AccessTTLMin:     mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays:   mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:       mustInt("BCRYPT_COST"),
    }.publicFrom()
}

// publicFrom derives the public half of the access key pair so verifiers
// never need the private key in hand.
func (c Config) publicFrom() Config {
    c.AccessPublicKey = &c.AccessPrivateKey.PublicKey
    return c
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// mustPrivateKey reads the PEM file named by the env var and parses it as
// an RSA private key.  Any failure here is a configuration error and the
// process exits rather than serving unsignable requests.
func mustPrivateKey(key string) *rsa.PrivateKey {
    path := must(key)
    pem, err := os.ReadFile(path)
    if err != nil {
        log.Fatalf("cannot read private key %s: %v", path, err)
    }
    pk, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
    if err != nil {
        log.Fatalf("cannot parse private key %s: %v", path, err)
    }
    return pk
}
