package common

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandByteArray returns size cryptographically random bytes.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return b
}

// MakeRandHexString generates a random hexadecimal string from size random
// bytes. The final string length is twice the size (each byte expands to two
// hex characters).
func MakeRandHexString(size int) string {
	return hex.EncodeToString(GenerateRandByteArray(size))
}
