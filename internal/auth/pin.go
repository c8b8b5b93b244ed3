// Package auth implements per-player PIN authentication, per spec.md §4.5:
// every mutating operation takes (player_id, pin); the HTTP transport
// (internal/transport/httpapi) loads that player's stored PIN hash and
// constant-time-compares SHA-256(pin) before handing the operation to the
// coordinator.
// Only the digest is ever persisted or compared.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"regexp"
)

// PinPattern is spec.md §6's PIN shape: exactly four digits.
var PinPattern = regexp.MustCompile(`^\d{4}$`)

// HashPin returns the digest stored for a player's PIN.
func HashPin(pin string) []byte {
	sum := sha256.Sum256([]byte(pin))
	return sum[:]
}

// VerifyPin reports whether pin matches the stored digest, in constant time.
func VerifyPin(pin string, storedHash []byte) bool {
	got := HashPin(pin)
	return subtle.ConstantTimeCompare(got, storedHash) == 1
}
