// Package password generates first-time account passwords and the salted
// SHA-512 crypt hashes used to provision Linux system users.
package password

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// MinLength is the shortest password Generate will produce
const MinLength = 10

// MaxLength is the longest password Generate will produce
const MaxLength = 4096

// SpecialChars are substituted into generated passwords
const SpecialChars = "!#$%&*+-_"

// substitutions is how many interior characters are overwritten with specials.
// Overwrites may land on the same position, so a password carries 1 to 3 specials.
const substitutions = 3

// Generator produces passwords from a random source
type Generator struct {
	reader io.Reader
}

// NewGenerator creates a Generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{reader: rand.Reader}
}

// NewGeneratorFromReader creates a Generator reading randomness from r
func NewGeneratorFromReader(r io.Reader) *Generator {
	return &Generator{reader: r}
}

// Generate returns a password of length characters, never shorter than
// MinLength. It is lowercase hex with up to three interior characters
// replaced by characters from SpecialChars. Lengths above MaxLength are rejected.
func (g *Generator) Generate(length int) (string, error) {
	if length < MinLength {
		length = MinLength
	}
	if length > MaxLength {
		return "", fmt.Errorf("password length %d exceeds maximum of %d", length, MaxLength)
	}

	// Two hex characters per byte
	buf := make([]byte, (length+1)/2)
	if _, err := io.ReadFull(g.reader, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	password := []byte(hex.EncodeToString(buf)[:length])

	for i := 0; i < substitutions; i++ {
		if err := g.substituteSpecial(password); err != nil {
			return "", err
		}
	}

	return string(password), nil
}

// substituteSpecial overwrites one random position, other than the first
// or last, with a random special character
func (g *Generator) substituteSpecial(password []byte) error {
	// Positions 1..len-2 inclusive
	pos, err := g.intn(len(password) - 2)
	if err != nil {
		return err
	}
	idx, err := g.intn(len(SpecialChars))
	if err != nil {
		return err
	}
	password[pos+1] = SpecialChars[idx]
	return nil
}

func (g *Generator) intn(n int) (int, error) {
	v, err := rand.Int(g.reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random number: %w", err)
	}
	return int(v.Int64()), nil
}

// ParseLength interprets a requested password length. Only integers and
// numeric strings are honored; anything else, or a value below the minimum,
// yields MinLength. Values above MaxLength are clamped to it.
func ParseLength(v any) int {
	var n int
	switch val := v.(type) {
	case nil:
		return MinLength
	case int:
		n = val
	case int64:
		n = int(val)
	case string:
		// Out-of-range values come back saturated and are clamped below
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return MinLength
		}
		n = parsed
	default:
		return MinLength
	}

	switch {
	case n > MaxLength:
		return MaxLength
	case n > MinLength:
		return n
	default:
		return MinLength
	}
}

// ContainsSpecial reports whether s holds at least one character from SpecialChars
func ContainsSpecial(s string) bool {
	return strings.ContainsAny(s, SpecialChars)
}
