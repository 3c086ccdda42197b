// Package credentials turns plaintext passwords into salted PBKDF2 hashes
// and verifies candidates against the stored form.
package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength = 16
	keyLength  = 32
	iterations = 10000
	delimiter  = "."
)

// Hash derives a PBKDF2-HMAC-SHA256 key from the given password under a
// fresh random salt and returns "base64(salt).base64(key)", a single opaque
// string safe for a text column.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	return base64.StdEncoding.EncodeToString(salt) + delimiter + base64.StdEncoding.EncodeToString(key), nil
}

// Verify reports whether password matches storedForm. It fails closed:
// malformed or undecodable stored forms simply return false.
func Verify(password string, storedForm string) bool {
	parts := strings.Split(storedForm, delimiter)
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	expected, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	return subtle.ConstantTimeCompare(key, expected) == 1
}
