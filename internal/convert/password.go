package convert

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/google/uuid"
)

// Alphabet names a fixed character table for password generation.
type Alphabet string

const (
	AlphabetStandard    Alphabet = "standard"
	AlphabetWithSymbols Alphabet = "with-symbols"
)

// Both alphabets leave out l, o, I, J, L and O; standard also drops 0 and 1.
var alphabets = map[Alphabet]string{
	AlphabetStandard:    "23456789abcdefghijkmnpqrstuvwxyzABCDEFGHKMNPQRSTUVWXYZ",
	AlphabetWithSymbols: "0123456789abcdefghijkmnpqrstuvwxyzABCDEFGHKMNPQRSTUVWXYZ%*)?@#$~",
}

// AlphabetChars returns the characters of a named alphabet.
func AlphabetChars(name Alphabet) (string, bool) {
	chars, ok := alphabets[name]
	return chars, ok
}

// PasswordGenerator draws passwords from a random source. The zero value uses crypto/rand.
type PasswordGenerator struct {
	Rand io.Reader
}

// GeneratePassword is a shorthand for PasswordGenerator{}.Generate.
func GeneratePassword(length int, alphabet Alphabet) (string, error) {
	return PasswordGenerator{}.Generate(length, alphabet)
}

// Generate returns length distinct characters of the alphabet in random order.
func (g PasswordGenerator) Generate(length int, alphabet Alphabet) (string, error) {
	if alphabet == "" {
		alphabet = AlphabetStandard
	}
	chars, ok := alphabets[alphabet]
	if !ok {
		return "", inputErrorf("password", "unknown alphabet %q (use %q or %q)", alphabet, AlphabetStandard, AlphabetWithSymbols)
	}
	if length <= 0 || length > len(chars) {
		return "", inputErrorf("password", "length must be between 1 and %d for the %s alphabet, got %d", len(chars), alphabet, length)
	}

	src := g.Rand
	if src == nil {
		src = rand.Reader
	}

	// Partial Fisher-Yates: the first length positions end up a uniform sample
	// without replacement.
	pool := []byte(chars)
	for i := 0; i < length; i++ {
		n, err := rand.Int(src, big.NewInt(int64(len(pool)-i)))
		if err != nil {
			return "", err
		}
		j := i + int(n.Int64())
		pool[i], pool[j] = pool[j], pool[i]
	}
	return string(pool[:length]), nil
}

// GenerateUUID returns a random version 4 UUID.
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
