package archive

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// HashEmail returns the hex-encoded SHA-256 hash of a trimmed, lowercased email.
// Manifests carry the hash so they can be joined to leads without holding the address.
func HashEmail(email string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("%x", h)
}
