package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/unionhq/membercard-backend/pkg/config"
)

// HashCredential returns a one-way bcrypt hash of the submitted secret.
// The stored value is opaque; it is never serialized back to callers.
func HashCredential(credential string, cfg config.CredentialConfig) (string, error) {
	if credential == "" {
		return "", fmt.Errorf("credential cannot be empty")
	}

	cost := clampCost(cfg.BcryptCost)
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), cost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(hash), nil
}

// VerifyCredential reports whether the secret matches the stored hash.
// A malformed hash is an error; a plain mismatch is not.
func VerifyCredential(credential, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(credential))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify credential: %w", err)
}

func clampCost(cost int) int {
	if cost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}
