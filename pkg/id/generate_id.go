package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
// Used for internal public identifiers (accounts, loans, bills).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewReference returns a UUIDv4 string. Used for customer-facing
// transaction/loan/bill reference numbers.
func NewReference() string {
	return uuid.NewString()
}
