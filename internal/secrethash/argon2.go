/*
Package secrethash - Argon2id Verify-Only Hashing

==============================================================================
FILE: internal/secrethash/argon2.go
==============================================================================

DESCRIPTION:
    A single argon2id hash/verify pair shared by every secret the core
    must compare without ever reversing: kiosk PINs (models.User), kiosk
    device secrets (models.KioskDevice). Uses argon2id rather than
    bcrypt because it is memory-hard and more resistant to GPU/ASIC
    cracking, and the salt and cost parameters are encoded alongside
    the hash so they can be tuned later without a migration.

==============================================================================
*/
package secrethash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	timeCost    = 1
	memoryCostK = 64 * 1024
	threads     = 4
	keyLen      = 32
	saltLen     = 16
)

// Hash returns an encoded argon2id hash of secret, safe to persist.
func Hash(secret string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := argon2.IDKey([]byte(secret), salt, timeCost, memoryCostK, threads, keyLen)
	return encode(salt, sum), nil
}

// Verify reports whether secret matches the previously encoded hash.
// Never attempts to recover secret from encoded.
func Verify(secret, encoded string) bool {
	if encoded == "" {
		return false
	}
	salt, want, err := decode(encoded)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(secret), salt, timeCost, memoryCostK, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

func encode(salt, sum []byte) string {
	return strings.Join([]string{
		"argon2id",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	}, "$")
}

func decode(encoded string) (salt, sum []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != "argon2id" {
		return nil, nil, fmt.Errorf("invalid secret hash encoding")
	}
	if salt, err = base64.RawStdEncoding.DecodeString(parts[1]); err != nil {
		return nil, nil, err
	}
	if sum, err = base64.RawStdEncoding.DecodeString(parts[2]); err != nil {
		return nil, nil, err
	}
	return salt, sum, nil
}
