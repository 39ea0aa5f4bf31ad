package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/restaurant-auth/internal/model"
)

// TokenRepo persists refresh-token records. Each issued refresh token
// owns exactly one row here, and the row id doubles as the revocation
// handle embedded in the signed token. The ttl is a fixed duration
// offset (configured as 365 days), deliberately not calendar-year
// arithmetic, so a token minted near Feb 29 cannot drift.
type TokenRepo struct {
	DB  *sql.DB
	ttl time.Duration
}

func NewTokenRepo(db *sql.DB, ttl time.Duration) *TokenRepo {
	return &TokenRepo{DB: db, ttl: ttl}
}

// Create inserts a refresh-token row for the user and returns the
// record, whose id the caller embeds into the signed token.
func (r *TokenRepo) Create(ctx context.Context, userID uint64) (model.RefreshToken, error) {
	exp := time.Now().UTC().Add(r.ttl)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, expires_at) VALUES (?,?)",
		userID, exp)
	if err != nil {
		return model.RefreshToken{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.RefreshToken{}, err
	}
	return model.RefreshToken{ID: uint64(id), UserID: userID, ExpiresAt: exp}, nil
}

// DeleteByID removes a refresh-token row. Deleting an absent row is not
// an error: concurrent rotations of the same stale token both reach
// this delete and the second one must simply no-op. The returned bool
// reports whether a row was actually removed.
func (r *TokenRepo) DeleteByID(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Exists reports whether a live refresh-token record with the given id
// belongs to the given user. This is the revocation predicate consulted
// by the refresh verifier: a missing row means the token was revoked or
// rotated away.
func (r *TokenRepo) Exists(ctx context.Context, id, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM refresh_tokens WHERE id=? AND user_id=? AND expires_at > UTC_TIMESTAMP() LIMIT 1",
		id, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
