package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-auth/internal/model"
)

func testSigner(t *testing.T, accessTTL, refreshTTL time.Duration) (*Signer, *rsa.PublicKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return NewSigner(key, "test-refresh-secret", accessTTL, refreshTTL), &key.PublicKey
}

func TestAccessTokenRoundTrip(t *testing.T) {
	signer, pub := testSigner(t, time.Hour, 365*24*time.Hour)

	raw, exp, err := signer.SignAccessToken(TokenPayload{UserID: 42, Role: model.RoleCustomer})
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	if until := time.Until(exp); until < 59*time.Minute || until > 61*time.Minute {
		t.Errorf("expiry %v not about an hour away", exp)
	}

	claims, err := ParseAccessToken(pub, raw)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "42" {
		t.Errorf("subject = %q, want %q", claims.Subject, "42")
	}
	if claims.Role != model.RoleCustomer {
		t.Errorf("role = %q, want %q", claims.Role, model.RoleCustomer)
	}
	if claims.Issuer != Issuer {
		t.Errorf("issuer = %q, want %q", claims.Issuer, Issuer)
	}
	if claims.RestaurantID != "" {
		t.Errorf("customer token carries restaurantId %q", claims.RestaurantID)
	}
	if uid, err := claims.SubjectID(); err != nil || uid != 42 {
		t.Errorf("SubjectID = %d, %v", uid, err)
	}
}

func TestManagerTokenCarriesRestaurantID(t *testing.T) {
	signer, pub := testSigner(t, time.Hour, 365*24*time.Hour)

	rid := uint64(7)
	raw, _, err := signer.SignAccessToken(TokenPayload{UserID: 5, Role: model.RoleManager, RestaurantID: &rid})
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	claims, err := ParseAccessToken(pub, raw)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.RestaurantID != "7" {
		t.Errorf("restaurantId = %q, want %q", claims.RestaurantID, "7")
	}
}

func TestClaimsInvariant(t *testing.T) {
	signer, _ := testSigner(t, time.Hour, time.Hour)
	rid := uint64(3)

	cases := []struct {
		name    string
		payload TokenPayload
		wantErr bool
	}{
		{"customer with restaurant", TokenPayload{UserID: 1, Role: model.RoleCustomer, RestaurantID: &rid}, true},
		{"admin with restaurant", TokenPayload{UserID: 1, Role: model.RoleAdmin, RestaurantID: &rid}, true},
		{"manager without restaurant", TokenPayload{UserID: 1, Role: model.RoleManager}, true},
		{"manager with restaurant", TokenPayload{UserID: 1, Role: model.RoleManager, RestaurantID: &rid}, false},
		{"customer without restaurant", TokenPayload{UserID: 1, Role: model.RoleCustomer}, false},
	}
	for _, tc := range cases {
		_, _, err := signer.SignAccessToken(tc.payload)
		if tc.wantErr && !errors.Is(err, ErrClaimsInvariant) {
			t.Errorf("%s: err = %v, want ErrClaimsInvariant", tc.name, err)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestRefreshTokenEmbedsTokenID(t *testing.T) {
	signer, _ := testSigner(t, time.Hour, 365*24*time.Hour)

	raw, exp, err := signer.SignRefreshToken(TokenPayload{UserID: 9, Role: model.RoleCustomer}, 1234)
	if err != nil {
		t.Fatalf("SignRefreshToken: %v", err)
	}
	if until := time.Until(exp); until < 364*24*time.Hour {
		t.Errorf("refresh expiry %v closer than a year", exp)
	}

	claims, err := ParseRefreshToken([]byte("test-refresh-secret"), raw)
	if err != nil {
		t.Fatalf("ParseRefreshToken: %v", err)
	}
	if claims.TokenID != 1234 {
		t.Errorf("tokenId = %d, want 1234", claims.TokenID)
	}
	if claims.Subject != "9" {
		t.Errorf("subject = %q, want %q", claims.Subject, "9")
	}
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	// A negative TTL signs a token that is already past its expiry,
	// standing in for verification at issuance + TTL + 1s.
	signer, pub := testSigner(t, -time.Second, time.Hour)

	raw, _, err := signer.SignAccessToken(TokenPayload{UserID: 1, Role: model.RoleCustomer})
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	if _, err := ParseAccessToken(pub, raw); err == nil {
		t.Error("expired token verified")
	}
}

func TestAccessTokenWrongKeyRejected(t *testing.T) {
	signer, _ := testSigner(t, time.Hour, time.Hour)
	_, otherPub := testSigner(t, time.Hour, time.Hour)

	raw, _, err := signer.SignAccessToken(TokenPayload{UserID: 1, Role: model.RoleCustomer})
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	if _, err := ParseAccessToken(otherPub, raw); err == nil {
		t.Error("token verified with the wrong public key")
	}
}

func TestAlgorithmConfusionRejected(t *testing.T) {
	signer, pub := testSigner(t, time.Hour, time.Hour)

	// An HS256 refresh token must never pass the RS256 access parser,
	// and an RS256 access token must never pass the HS256 refresh parser.
	refresh, _, err := signer.SignRefreshToken(TokenPayload{UserID: 1, Role: model.RoleCustomer}, 1)
	if err != nil {
		t.Fatalf("SignRefreshToken: %v", err)
	}
	if _, err := ParseAccessToken(pub, refresh); err == nil {
		t.Error("HS256 token accepted by the access verifier")
	}

	access, _, err := signer.SignAccessToken(TokenPayload{UserID: 1, Role: model.RoleCustomer})
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	if _, err := ParseRefreshToken([]byte("test-refresh-secret"), access); err == nil {
		t.Error("RS256 token accepted by the refresh verifier")
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	_, pub := testSigner(t, time.Hour, time.Hour)
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := ParseAccessToken(pub, raw); err == nil {
			t.Errorf("malformed token %q verified", raw)
		}
	}
}
