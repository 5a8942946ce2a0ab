package utils

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// BcryptCost clamps cost into the range bcrypt accepts.
func BcryptCost(cost int) int {
	if cost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}

// HashPassword returns bcrypt hash using the given cost. Every call draws a
// fresh salt.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost(cost))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password. A malformed
// hash reports false.  bcrypt only reads the first 72 bytes, so longer
// passwords are rejected here instead of matching on their prefix.
func VerifyPassword(hash, plain string) bool {
	if len(plain) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
