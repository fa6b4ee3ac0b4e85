// Package hash stores passwords and one-time reset codes as bcrypt digests.
package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const Cost = bcrypt.DefaultCost

func HashPassword(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

// CheckPassword reports whether secret matches digest. An empty digest never
// matches, so accounts without a pending code cannot be reset.
func CheckPassword(digest, secret string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}

// NeedsRehash reports whether digest was produced with a different cost.
func NeedsRehash(digest string) bool {
	c, err := bcrypt.Cost([]byte(digest))
	return err != nil || c != Cost
}
