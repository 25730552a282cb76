// Package secret generates Django SECRET_KEY values.
//
// Keys are drawn from a cryptographically secure source. The same generator
// pre-populates template placeholders during project setup and backs the
// `djinn secret` command.
package secret

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet is the documented character set for generated keys: ASCII
// letters, digits, and the punctuation Django's own generator uses.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*(-_=+)"

const (
	// MinLength is the smallest accepted key length.
	MinLength = 8

	// DefaultLength matches Django's 50-character secret keys.
	DefaultLength = 50
)

// GenerateKey returns a single random key of exactly the requested length.
func GenerateKey(length int) (string, error) {
	if length < MinLength {
		return "", fmt.Errorf("secret key length must be at least %d, got %d", MinLength, length)
	}

	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("reading random source: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Generate returns count independent keys of the given length.
func Generate(count, length int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("key count must be at least 1, got %d", count)
	}

	keys := make([]string, 0, count)
	for i := 0; i < count; i++ {
		key, err := GenerateKey(length)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
