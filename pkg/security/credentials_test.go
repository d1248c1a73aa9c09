package security_test

import (
	"testing"

	"github.com/unionhq/membercard-backend/pkg/config"
	"github.com/unionhq/membercard-backend/pkg/security"
)

func TestHashAndVerifyCredential(t *testing.T) {
	cfg := config.CredentialConfig{BcryptCost: 4}

	hash, err := security.HashCredential("very-secret", cfg)
	if err != nil {
		t.Fatalf("HashCredential returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashCredential returned empty string")
	}
	if hash == "very-secret" {
		t.Fatal("hash must not equal the plaintext credential")
	}

	ok, err := security.VerifyCredential("very-secret", hash)
	if err != nil {
		t.Fatalf("VerifyCredential returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyCredential failed for the correct credential")
	}

	ok, err = security.VerifyCredential("bogus", hash)
	if err != nil {
		t.Fatalf("VerifyCredential returned error for mismatch: %v", err)
	}
	if ok {
		t.Fatal("VerifyCredential returned true for incorrect credential")
	}
}

func TestHashCredentialRejectsEmpty(t *testing.T) {
	if _, err := security.HashCredential("", config.CredentialConfig{}); err == nil {
		t.Fatal("expected error for empty credential")
	}
}

func TestVerifyCredentialBadHash(t *testing.T) {
	if _, err := security.VerifyCredential("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}
