package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

func TestNewJWKSet(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	set, err := NewJWKSet(&key.PublicKey)
	if err != nil {
		t.Fatalf("NewJWKSet: %v", err)
	}
	if len(set.Keys) != 1 {
		t.Fatalf("keys = %d, want 1", len(set.Keys))
	}
	jwk := set.Keys[0]
	if jwk.Kty != "RSA" || jwk.Alg != "RS256" || jwk.Use != "sig" {
		t.Errorf("unexpected jwk header fields: %+v", jwk)
	}
	if jwk.N == "" || jwk.E == "" || jwk.Kid == "" {
		t.Errorf("jwk is missing key material: %+v", jwk)
	}

	// Same key, same kid.
	again, err := NewJWKSet(&key.PublicKey)
	if err != nil {
		t.Fatalf("NewJWKSet: %v", err)
	}
	if again.Keys[0].Kid != jwk.Kid {
		t.Errorf("kid not stable: %q vs %q", again.Keys[0].Kid, jwk.Kid)
	}
}

func TestNewJWKSetNilKey(t *testing.T) {
	if _, err := NewJWKSet(nil); err == nil {
		t.Error("nil key accepted")
	}
}
