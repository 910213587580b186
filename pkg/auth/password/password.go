// Package password hashes and verifies user passwords.
//
// New hashes are bcrypt. Stored values which are not bcrypt hashes are legacy ones:
// either base64 encoded SHA-256 digests or plain texts.
// They are still verified, and Verify reports that they should be rehashed.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Cost of bcrypt for new hashes.
var Cost = bcrypt.DefaultCost

var ErrEmpty = errors.New("password is empty")

func Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmpty
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func isBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// legacyDigest is the SHA-256 digest of password in standard base64.
func legacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Verify checks password against the stored value.
//
// # Returns
//
// - ok: the password matches.
//
// - needsRehash: the stored value is not a bcrypt hash (or has another cost), so it should be replaced with Hash(password).
// It is meaningful only when ok.
func Verify(stored string, password string) (ok bool, needsRehash bool) {
	if stored == "" || password == "" {
		return false, false
	}

	if isBcrypt(stored) {
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
			return false, false
		}
		cost, err := bcrypt.Cost([]byte(stored))
		return true, err != nil || cost != Cost
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(legacyDigest(password))) == 1 {
		return true, true
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1 {
		return true, true
	}
	return false, false
}
