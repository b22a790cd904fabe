// Package crypto implements password hashing and verification for local
// accounts.
//
// New credentials are hashed with bcrypt. The store this service replaced
// kept unsalted hex-encoded SHA-256 digests, so verification also accepts
// that legacy format; accounts imported from the old store keep working and
// are indistinguishable to callers.
package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// legacyDigestLen is the length of a hex-encoded SHA-256 digest.
const legacyDigestLen = 64

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword reports whether candidate matches the stored digest.
// An empty stored digest never matches: externally provisioned accounts
// have no local credential and cannot log in with a password.
func VerifyPassword(stored, candidate string) bool {
	if stored == "" || candidate == "" {
		return false
	}

	if isLegacyDigest(stored) {
		sum := sha256.Sum256([]byte(candidate))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1
	}

	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}

// LegacyHashPassword produces the unsalted SHA-256 digest used by the old
// store. Kept for import tooling and tests; new code must use HashPassword.
func LegacyHashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// isLegacyDigest reports whether stored looks like a hex-encoded SHA-256
// digest. bcrypt hashes always start with "$", so the two formats cannot
// collide.
func isLegacyDigest(stored string) bool {
	if len(stored) != legacyDigestLen {
		return false
	}
	_, err := hex.DecodeString(stored)
	return err == nil
}
