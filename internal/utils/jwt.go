package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rsa" // rsa private/public keys for access-token signing
    "errors"     // sentinel errors for invariant violations
    "strconv"    // numeric id to string subject conversion
    "time"       // expiry computation

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

    "github.com/iliyamo/restaurant-auth/internal/model" // role names for the claims invariant
)

// Issuer is the fixed iss claim stamped on every token this service
// signs.  Verifiers reject tokens carrying any other issuer.
const Issuer = "auth-service"

// ErrClaimsInvariant is returned when a payload carries a restaurant id
// for a non-manager role (or a manager without one).  The restaurantId
// claim is meaningful only for managers, and that rule is enforced at
// signing time rather than left to caller convention.
var ErrClaimsInvariant = errors.New("restaurantId claim is valid only for managers")

// Claims is the payload carried by both token kinds.  Access tokens
// carry role and the optional restaurantId; refresh tokens additionally
// embed the refresh-record id as tokenId, which is the revocation
// handle checked against the store on every refresh.
type Claims struct {
    Role         string `json:"role"`
    RestaurantID string `json:"restaurantId,omitempty"`
    TokenID      uint64 `json:"tokenId,omitempty"`
    jwt.RegisteredClaims
}

// TokenPayload is the identity-derived input to the signer.  The
// RestaurantID pointer mirrors the users.restaurant_id column: nil for
// everyone except managers.
type TokenPayload struct {
    UserID       uint64
    Role         string
    RestaurantID *uint64
}

func (p TokenPayload) validate() error {
    if (p.RestaurantID != nil) != (p.Role == model.RoleManager) {
        return ErrClaimsInvariant
    }
    return nil
}

// Signer produces the two token kinds of the service: RS256 access
// tokens verifiable by anyone holding the published public key, and
// HS256 refresh tokens verifiable only by this service.  Signing fails
// only on a payload invariant violation or unusable key material, which
// is a configuration problem and not a per-request condition.
type Signer struct {
    privateKey    *rsa.PrivateKey
    refreshSecret []byte
    accessTTL     time.Duration
    refreshTTL    time.Duration
}

// NewSigner builds a Signer from the immutable key material loaded at
// startup.  TTLs are passed in so tests can shrink them.
func NewSigner(pk *rsa.PrivateKey, refreshSecret string, accessTTL, refreshTTL time.Duration) *Signer {
    return &Signer{
        privateKey:    pk,
        refreshSecret: []byte(refreshSecret),
        accessTTL:     accessTTL,
        refreshTTL:    refreshTTL,
    }
}

// AccessTTL reports the configured access-token lifetime; the cookie
// max-age must match it.
func (s *Signer) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL reports the configured refresh-token lifetime.  This is a
// fixed duration offset (365 days by configuration), not calendar-year
// arithmetic, so expiry math cannot drift across leap days.
func (s *Signer) RefreshTTL() time.Duration { return s.refreshTTL }

// SignAccessToken signs a short-lived RS256 token from the payload and
// returns the compact form together with its expiry.
func (s *Signer) SignAccessToken(p TokenPayload) (string, time.Time, error) {
    if err := p.validate(); err != nil {
        return "", time.Time{}, err
    }
    now := time.Now().UTC()
    exp := now.Add(s.accessTTL)
    t := jwt.NewWithClaims(jwt.SigningMethodRS256, s.claims(p, 0, now, exp))
    signed, err := t.SignedString(s.privateKey)
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

// SignRefreshToken signs a long-lived HS256 token embedding tokenID,
// the id of the refresh_tokens row persisted for this issuance.
func (s *Signer) SignRefreshToken(p TokenPayload, tokenID uint64) (string, time.Time, error) {
    if err := p.validate(); err != nil {
        return "", time.Time{}, err
    }
    now := time.Now().UTC()
    exp := now.Add(s.refreshTTL)
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, s.claims(p, tokenID, now, exp))
    signed, err := t.SignedString(s.refreshSecret)
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

func (s *Signer) claims(p TokenPayload, tokenID uint64, now, exp time.Time) Claims {
    c := Claims{
        Role:    p.Role,
        TokenID: tokenID,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(p.UserID, 10),
            Issuer:    Issuer,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    if p.RestaurantID != nil {
        c.RestaurantID = strconv.FormatUint(*p.RestaurantID, 10)
    }
    return c
}

// ParseAccessToken verifies signature, algorithm, issuer and expiry of
// an access token against the published public key and returns its
// claims.  Callers must treat any error uniformly; the cause is not
// surfaced to clients.
func ParseAccessToken(pub *rsa.PublicKey, raw string) (*Claims, error) {
    return parse(raw, func(*jwt.Token) (interface{}, error) { return pub, nil },
        jwt.SigningMethodRS256.Alg())
}

// ParseRefreshToken verifies a refresh token against the shared secret.
// Revocation is a separate concern layered on top by the refresh
// verifier middleware.
func ParseRefreshToken(secret []byte, raw string) (*Claims, error) {
    return parse(raw, func(*jwt.Token) (interface{}, error) { return secret, nil },
        jwt.SigningMethodHS256.Alg())
}

func parse(raw string, keyFn jwt.Keyfunc, alg string) (*Claims, error) {
    tok, err := jwt.ParseWithClaims(raw, &Claims{}, keyFn,
        jwt.WithValidMethods([]string{alg}),
        jwt.WithIssuer(Issuer),
        jwt.WithExpirationRequired(),
    )
    if err != nil {
        return nil, err
    }
    claims, ok := tok.Claims.(*Claims)
    if !ok || !tok.Valid {
        return nil, jwt.ErrTokenInvalidClaims
    }
    return claims, nil
}

// SubjectID converts the string subject claim back to the numeric user id.
func (c *Claims) SubjectID() (uint64, error) {
    return strconv.ParseUint(c.Subject, 10, 64)
}
