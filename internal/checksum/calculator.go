package checksum

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Calculator is an interface for computing file checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// Matches reports whether content hashes to sum.
	Matches(content []byte, sum string) bool
}

// SHA256 implements checksum calculation using SHA-256.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content as lowercase hex.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Matches reports whether content hashes to sum. An empty sum never matches.
func (c SHA256) Matches(content []byte, sum string) bool {
	if sum == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.CalculateRaw(content)), []byte(sum)) == 1
}

var _ Calculator = SHA256{}
