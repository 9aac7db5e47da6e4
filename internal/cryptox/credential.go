// Package cryptox implements password-based key derivation and authenticated
// encryption for everything the program persists.
//
// Two independent derivations exist on purpose: the verification credential
// (stored next to the data, never containing the password) and the per-blob
// encryption keys (each ciphertext carries its own salt and KDF parameters,
// so a password change never breaks decryption of old blobs).
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/workvault/workvault/internal/common"
)

const (
	// PasswordIterations is the PBKDF2 round count for the verification
	// credential. Deliberately slow; paid once per authentication.
	PasswordIterations = 200_000

	// EncryptionIterations is the PBKDF2 round count for per-blob keys.
	EncryptionIterations = 100_000

	SaltSize = 16
	KeySize  = 32
)

// Credential is the stored password-verification material. It never contains
// the password itself and is replaced wholesale on password change.
type Credential struct {
	Salt       []byte `json:"salt"`
	Iterations int    `json:"iterations"`
	Key        []byte `json:"key"`
}

// DeriveCredential derives fresh verification material for password. A new
// random salt is generated on every call; a credential must never be reused
// across different passwords.
func DeriveCredential(password string) (*Credential, error) {
	salt, err := common.GenerateRandByteArray(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, PasswordIterations, KeySize, sha256.New)
	return &Credential{Salt: salt, Iterations: PasswordIterations, Key: key}, nil
}

// Verify re-derives a key from password using the credential's stored salt
// and iteration count and compares it in constant time. A wrong password is
// a false result, not an error. Corrupt or missing credential fields fail
// closed.
func Verify(password string, c *Credential) bool {
	if c == nil || len(c.Salt) == 0 || c.Iterations <= 0 || len(c.Key) == 0 {
		return false
	}
	candidate := pbkdf2.Key([]byte(password), c.Salt, c.Iterations, len(c.Key), sha256.New)
	return subtle.ConstantTimeCompare(candidate, c.Key) == 1
}
