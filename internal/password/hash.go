package password

import (
	"fmt"

	"github.com/GehirnInc/crypt/sha512_crypt"
)

// SHA512Prefix designates SHA-512 in crypt(3) salt strings
const SHA512Prefix = sha512_crypt.MagicPrefix

// saltLength is the generated salt length. crypt(3) only uses the first
// 16 characters, and stops early at a '$'.
const saltLength = 32

// SaltedHash returns a crypt-style salted SHA-512 hash of password.
// Anything that is not a string, including nil, hashes to "".
func (g *Generator) SaltedHash(password any) (string, error) {
	s, ok := password.(string)
	if !ok {
		return "", nil
	}

	salt, err := g.Generate(saltLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash, err := sha512_crypt.New().Generate([]byte(s), []byte(SHA512Prefix+salt))
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// VerifyHash reports whether hash was produced from password
func VerifyHash(hash, password string) bool {
	return sha512_crypt.New().Verify(hash, []byte(password)) == nil
}
