package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/pbkdf2"

	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/filex"
)

// blobMagic tags the self-describing ciphertext container. Layout:
//
//	magic(8) | salt(16) | iterations(4, BE) | nonce(12) | AES-256-GCM ciphertext+tag
//
// The header (magic through iterations) is bound as AEAD associated data, so
// tampering with the KDF parameters fails authentication like any other
// corruption.
var blobMagic = []byte("PBKDF2v2")

const (
	nonceSize  = 12
	gcmTagSize = 16
	headerSize = 8 + SaltSize + 4
)

// SecurityManager performs authenticated encryption under a password.
// It is cheap to construct, holds no persistent state, and is meant to be
// instantiated per call chain with the session's active password.
type SecurityManager struct {
	password []byte
}

func NewSecurityManager(password string) *SecurityManager {
	return &SecurityManager{password: []byte(password)}
}

func (m *SecurityManager) deriveKey(salt []byte, iterations int) []byte {
	return pbkdf2.Key(m.password, salt, iterations, KeySize, sha256.New)
}

// EncryptBytes encrypts plain under a key freshly derived from the password.
// Every call uses a new random salt and nonce; if secure randomness is
// unavailable, encryption fails rather than risk nonce reuse.
func (m *SecurityManager) EncryptBytes(plain []byte) ([]byte, error) {
	if len(m.password) == 0 {
		return nil, common.ErrNotAuthenticated
	}

	salt, err := common.GenerateRandByteArray(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	header := make([]byte, 0, headerSize)
	header = append(header, blobMagic...)
	header = append(header, salt...)
	header = binary.BigEndian.AppendUint32(header, uint32(EncryptionIterations))

	key := m.deriveKey(salt, EncryptionIterations)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce, err := common.GenerateRandByteArray(aesgcm.NonceSize())
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := aesgcm.Seal(nil, nonce, plain, header)

	blob := make([]byte, 0, len(header)+len(nonce)+len(ciphertext))
	blob = append(blob, header...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// DecryptBytes reverses EncryptBytes. Every failure mode (wrong password,
// truncated blob, unknown format tag, flipped ciphertext byte) reports the
// single outcome common.ErrAuthFailure, so callers cannot build a
// wrong-password-vs-corruption oracle on top of it.
func (m *SecurityManager) DecryptBytes(blob []byte) ([]byte, error) {
	if len(m.password) == 0 {
		return nil, common.ErrNotAuthenticated
	}
	if len(blob) < headerSize+nonceSize+gcmTagSize {
		return nil, common.ErrAuthFailure
	}
	if !bytes.Equal(blob[:len(blobMagic)], blobMagic) {
		return nil, common.ErrAuthFailure
	}

	header := blob[:headerSize]
	salt := blob[len(blobMagic) : len(blobMagic)+SaltSize]
	iterations := binary.BigEndian.Uint32(blob[len(blobMagic)+SaltSize : headerSize])
	if iterations == 0 {
		return nil, common.ErrAuthFailure
	}

	key := m.deriveKey(salt, int(iterations))
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, common.ErrAuthFailure
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, common.ErrAuthFailure
	}

	nonce := blob[headerSize : headerSize+nonceSize]
	ciphertext := blob[headerSize+nonceSize:]

	plain, err := aesgcm.Open(nil, nonce, ciphertext, header)
	if err != nil {
		return nil, common.ErrAuthFailure
	}
	return plain, nil
}

// EncryptFile encrypts the contents of inPath and atomically writes the blob
// to outPath. Retained for the legacy single-file format.
func (m *SecurityManager) EncryptFile(inPath, outPath string) error {
	plain, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", common.ErrIOFailure, inPath, err)
	}
	blob, err := m.EncryptBytes(plain)
	if err != nil {
		return err
	}
	return filex.AtomicWriteFile(outPath, blob, 0o600)
}

// DecryptFile decrypts a whole file written by EncryptFile.
func (m *SecurityManager) DecryptFile(path string) ([]byte, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrIOFailure, path, err)
	}
	return m.DecryptBytes(blob)
}

// EncryptJSON is the serialize-then-encrypt composition used for every
// structured payload in the store.
func (m *SecurityManager) EncryptJSON(v any) ([]byte, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return m.EncryptBytes(plain)
}

// DecryptJSON decrypts blob and unmarshals into v. A parse failure after a
// successful decrypt is data corruption, distinct from an auth failure.
func (m *SecurityManager) DecryptJSON(blob []byte, v any) error {
	plain, err := m.DecryptBytes(blob)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plain, v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrCorruptData, err)
	}
	return nil
}
