package utils

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// MD5Hash generates MD5 hash of input string
func MD5Hash(input string) string {
	hash := md5.Sum([]byte(input))
	return hex.EncodeToString(hash[:])
}

// CacheKey hashes the normalised parts into a stable cache key.
func CacheKey(parts ...string) string {
	normalised := make([]string, len(parts))
	for i, p := range parts {
		normalised[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return MD5Hash(strings.Join(normalised, "|"))
}

// NewRequestID returns a random request identifier.
func NewRequestID() string {
	return uuid.NewString()
}

// ValidRequestID reports whether id is a caller-supplied id we are willing to
// echo back: printable, no spaces and at most 64 characters.
func ValidRequestID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		if r <= ' ' || r > '~' {
			return false
		}
	}
	return true
}
