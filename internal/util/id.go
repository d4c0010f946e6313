// Package util provides ID generation utilities for lixshare.
// Document IDs are random 128-bit values (UUIDv4) written in base62 and
// truncated to a short prefix, which keeps URLs brief while leaving the
// collision probability per draw negligible.
package util

import (
	"fmt"
	"math/big"
	"regexp"

	"github.com/google/uuid"
)

// Base62Alphabet is the ordered digit set: digits, lowercase, uppercase.
const Base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultIDLength is the number of characters kept from the encoding.
const DefaultIDLength = 10

// MaxIDLength is the longest base62 encoding of a 128-bit value.
const MaxIDLength = 22

var base = big.NewInt(int64(len(Base62Alphabet)))

// idPattern validates the format of document IDs.
var idPattern = regexp.MustCompile(`^[0-9a-zA-Z]{1,22}$`)

// EncodeBase62 writes n in base62, most significant digit first.
// Zero encodes as the alphabet's first character.
func EncodeBase62(n *big.Int) string {
	if n == nil || n.Sign() == 0 {
		return Base62Alphabet[:1]
	}

	num := new(big.Int).Abs(n)
	rem := new(big.Int)
	digits := make([]byte, 0, MaxIDLength)
	for num.Sign() > 0 {
		num.DivMod(num, base, rem)
		digits = append(digits, Base62Alphabet[rem.Int64()])
	}

	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// ShortID encodes n and keeps the first length characters.
// An encoding shorter than length is returned whole.
func ShortID(n *big.Int, length int) string {
	if length < 1 {
		length = DefaultIDLength
	}
	encoded := EncodeBase62(n)
	if len(encoded) <= length {
		return encoded
	}
	return encoded[:length]
}

// GenerateID creates a new candidate document ID of the given length.
//
// Example output: "4fZk0QbT2x"
//
// Note: Callers should check for ID collisions in the storage layer
// before using the generated ID; truncation makes them rare, not impossible.
func GenerateID(length int) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("drawing random uuid: %w", err)
	}
	return ShortID(new(big.Int).SetBytes(id[:]), length), nil
}

// ValidateID checks if an ID has the correct format.
// Valid IDs are 1 to 22 base62 characters.
//
// This validation keeps path separators and query syntax out of storage
// keys and file paths.
func ValidateID(id string) bool {
	return idPattern.MatchString(id)
}

// ValidateIDOrError returns an error if the ID is invalid.
func ValidateIDOrError(id string) error {
	if !ValidateID(id) {
		return fmt.Errorf("invalid ID format: must be 1 to %d base62 characters", MaxIDLength)
	}
	return nil
}

// IDGenerator returns a generator function bound to a fixed length,
// in the shape the document gateway expects.
func IDGenerator(length int) func() (string, error) {
	return func() (string, error) {
		return GenerateID(length)
	}
}
