package model

import "time"

// RefreshToken models an entry in the `refresh_tokens` table.  The
// row id is the revocation handle: it is embedded in the signed
// refresh token as the tokenId claim, and a presented refresh token
// is only honored while a row with that id still exists for the
// token's subject.  The signed token itself is never stored.
//
// The user_id foreign key carries ON DELETE CASCADE so deleting a
// user destroys every session that user still holds.
//
// Fields:
//  ID        – primary key identifier; the revocation handle.
//  UserID    – owner of the token.
//  ExpiresAt – expiration timestamp of the token.
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64    // refresh_tokens.id
    UserID    uint64    // refresh_tokens.user_id
    ExpiresAt time.Time // refresh_tokens.expires_at
    CreatedAt time.Time // refresh_tokens.created_at
}
