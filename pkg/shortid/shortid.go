// Package shortid generates short human-readable order codes.
package shortid

import (
	"crypto/rand"
	"fmt"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// CodeLength is the number of base-36 characters in a code.
	CodeLength = 8
)

// New returns a fresh base-36 order code.
func New() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
