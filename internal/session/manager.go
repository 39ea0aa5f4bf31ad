// Package session owns the refresh-token lifecycle: issuing a
// record+token pair, rotating it on refresh and revoking it on logout.
// The database record is the source of truth; the signed refresh token
// is only a pointer to it.
package session

import (
    "context"
    "net/http"
    "time"

    "github.com/iliyamo/restaurant-auth/internal/model"
    "github.com/iliyamo/restaurant-auth/internal/utils"
)

// Cookie names used on the wire. Both cookies are httpOnly and
// SameSite=Strict; their max-age always matches the embedded token
// expiry.
const (
    AccessCookie  = "accessToken"
    RefreshCookie = "refreshToken"
)

// TokenStore is the slice of the refresh-token repository the manager
// needs. Keeping it an interface lets tests drive the lifecycle with an
// in-memory fake.
type TokenStore interface {
    Create(ctx context.Context, userID uint64) (model.RefreshToken, error)
    DeleteByID(ctx context.Context, id uint64) (bool, error)
}

// UserLoader resolves a user id to its current row. Rotation re-derives
// the claim set from this lookup rather than trusting the old token,
// because role or restaurant assignment may have changed since the
// original issuance.
type UserLoader interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenPair is the result of one issuance: both signed tokens plus
// their expiries, which the handlers mirror into cookie max-ages.
type TokenPair struct {
    Access     string
    AccessExp  time.Time
    Refresh    string
    RefreshExp time.Time
}

// Manager coordinates the signer and the store so the persisted record
// and the signed token id cannot drift apart.
type Manager struct {
    signer       *utils.Signer
    store        TokenStore
    users        UserLoader
    cookieDomain string
}

func NewManager(signer *utils.Signer, store TokenStore, users UserLoader, cookieDomain string) *Manager {
    return &Manager{signer: signer, store: store, users: users, cookieDomain: cookieDomain}
}

// Issue persists a new refresh-token record for the user, signs a
// refresh token embedding the record id, and signs an access token from
// the same base claims. If the record is created but signing fails the
// orphaned row is left to expire naturally; the issuance as a whole
// still fails.
func (m *Manager) Issue(ctx context.Context, u model.User) (TokenPair, error) {
    rec, err := m.store.Create(ctx, u.ID)
    if err != nil {
        return TokenPair{}, err
    }
    payload := payloadFor(u)
    refresh, refreshExp, err := m.signer.SignRefreshToken(payload, rec.ID)
    if err != nil {
        return TokenPair{}, err
    }
    access, accessExp, err := m.signer.SignAccessToken(payload)
    if err != nil {
        return TokenPair{}, err
    }
    return TokenPair{
        Access:     access,
        AccessExp:  accessExp,
        Refresh:    refresh,
        RefreshExp: refreshExp,
    }, nil
}

// Rotate destroys the record named by the presented token and issues a
// brand-new pair for the same identity, read fresh from the store.
// Destroy-then-create is two separate statements; two concurrent
// rotations of the same stale token can therefore both succeed, which
// is a known race. The idempotent delete guarantees the loser of the
// delete still proceeds cleanly instead of failing hard.
//
// When the subject no longer exists the lookup error (ErrNotFound from
// the repository) is returned unchanged so the handler can answer with
// a client error rather than a server fault.
func (m *Manager) Rotate(ctx context.Context, oldTokenID, userID uint64) (model.User, TokenPair, error) {
    if _, err := m.store.DeleteByID(ctx, oldTokenID); err != nil {
        return model.User{}, TokenPair{}, err
    }
    u, err := m.users.GetByID(ctx, userID)
    if err != nil {
        return model.User{}, TokenPair{}, err
    }
    pair, err := m.Issue(ctx, u)
    if err != nil {
        return model.User{}, TokenPair{}, err
    }
    return u, pair, nil
}

// Revoke destroys the record named by a presented refresh token. An
// already-absent record is a success: logout is idempotent and the
// caller clears the cookies either way.
func (m *Manager) Revoke(ctx context.Context, tokenID uint64) error {
    _, err := m.store.DeleteByID(ctx, tokenID)
    return err
}

// Cookies renders a token pair as the two auth cookies.
func (m *Manager) Cookies(p TokenPair) (*http.Cookie, *http.Cookie) {
    return m.cookie(AccessCookie, p.Access, int(time.Until(p.AccessExp)/time.Second)),
        m.cookie(RefreshCookie, p.Refresh, int(time.Until(p.RefreshExp)/time.Second))
}

// ClearCookies renders expired cookies that remove both credentials
// from the client.
func (m *Manager) ClearCookies() (*http.Cookie, *http.Cookie) {
    return m.cookie(AccessCookie, "", -1), m.cookie(RefreshCookie, "", -1)
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
    return &http.Cookie{
        Name:     name,
        Value:    value,
        Domain:   m.cookieDomain,
        Path:     "/",
        MaxAge:   maxAge,
        HttpOnly: true,
        SameSite: http.SameSiteStrictMode,
    }
}

// payloadFor maps a user row onto the claim set. The restaurant id is
// carried only for managers, matching the signing-time invariant.
func payloadFor(u model.User) utils.TokenPayload {
    p := utils.TokenPayload{UserID: u.ID, Role: u.Role}
    if u.Role == model.RoleManager {
        p.RestaurantID = u.RestaurantID
    }
    return p
}
