package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secretpass", 10)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if len(hash) != 60 {
		t.Errorf("bcrypt hash length = %d, want 60", len(hash))
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash %q does not look like bcrypt", hash)
	}
	if !VerifyPassword(hash, "secretpass") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrongpass") {
		t.Error("wrong password accepted")
	}
	if VerifyPassword(hash, "") {
		t.Error("empty password accepted")
	}
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "anything") {
		t.Error("garbage hash verified")
	}
}
