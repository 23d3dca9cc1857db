package shortener

import (
	"crypto/rand"
	"math/big"
)

// Base62 character set (A-Z, a-z, 0-9). Base62 avoids characters that
// would need escaping in a URL path segment.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultCodeLength gives 62^7 (about 3.5 trillion) combinations, which
// keeps the collision retry loop a theoretical concern.
const DefaultCodeLength = 7

// CodeGenerator produces random short codes from a cryptographically
// secure source, so live codes cannot be enumerated by scanning.
type CodeGenerator struct {
	length int
}

// NewCodeGenerator creates a generator producing codes of the given
// length, clamped to a sane range.
func NewCodeGenerator(length int) *CodeGenerator {
	if length < 4 {
		length = DefaultCodeLength
	}
	if length > 12 {
		length = 12
	}

	return &CodeGenerator{length: length}
}

// Generate draws length characters uniformly from the base62 alphabet.
func (g *CodeGenerator) Generate() (string, error) {
	code := make([]byte, g.length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}

	return string(code), nil
}

// Length returns the configured code length.
func (g *CodeGenerator) Length() int {
	return g.length
}
