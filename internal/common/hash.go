package common

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sha256Hex hashes input and returns the lowercase hex digest.
func Sha256Hex(input string) string {
	d := sha256.Sum256([]byte(input))
	return hex.EncodeToString(d[:])
}
