package cryptox

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workvault/workvault/internal/common"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	m := NewSecurityManager("p1")

	for _, plain := range [][]byte{[]byte("abc"), []byte(""), make([]byte, 4096)} {
		blob, err := m.EncryptBytes(plain)
		require.NoError(t, err)

		got, err := m.DecryptBytes(blob)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	blob, err := NewSecurityManager("p1").EncryptBytes([]byte("abc"))
	require.NoError(t, err)

	_, err = NewSecurityManager("p2").DecryptBytes(blob)
	assert.ErrorIs(t, err, common.ErrAuthFailure)
}

func TestEncrypt_NonceUniqueness(t *testing.T) {
	m := NewSecurityManager("p1")

	b1, err := m.EncryptBytes([]byte("same plaintext"))
	require.NoError(t, err)
	b2, err := m.EncryptBytes([]byte("same plaintext"))
	require.NoError(t, err)

	assert.NotEqual(t, b1, b2)
}

func TestDecrypt_CorruptedBlobIsAuthFailure(t *testing.T) {
	m := NewSecurityManager("p1")
	blob, err := m.EncryptBytes([]byte("abc"))
	require.NoError(t, err)

	// Flip one byte in every region of the container: header, nonce, body.
	for _, pos := range []int{0, len(blobMagic), headerSize, headerSize + nonceSize, len(blob) - 1} {
		corrupted := append([]byte(nil), blob...)
		corrupted[pos] ^= 0xff

		_, err := m.DecryptBytes(corrupted)
		assert.ErrorIs(t, err, common.ErrAuthFailure, "byte %d", pos)
	}
}

func TestDecrypt_TruncatedBlobIsAuthFailure(t *testing.T) {
	m := NewSecurityManager("p1")

	for _, blob := range [][]byte{nil, []byte("short"), make([]byte, headerSize)} {
		_, err := m.DecryptBytes(blob)
		assert.ErrorIs(t, err, common.ErrAuthFailure)
	}
}

func TestSecurityManager_EmptyPassword(t *testing.T) {
	m := NewSecurityManager("")

	_, err := m.EncryptBytes([]byte("x"))
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)

	_, err = m.DecryptBytes(make([]byte, headerSize+nonceSize+gcmTagSize))
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestEncryptDecryptFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "plain.json")
	out := filepath.Join(dir, "plain.json.enc")
	require.NoError(t, os.WriteFile(in, []byte(`[{"Name":"Ada"}]`), 0o600))

	m := NewSecurityManager("p1")
	require.NoError(t, m.EncryptFile(in, out))

	got, err := m.DecryptFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"Name":"Ada"}]`), got)

	_, err = NewSecurityManager("p2").DecryptFile(out)
	assert.ErrorIs(t, err, common.ErrAuthFailure)
}

func TestDecryptFile_UnreadableIsIOFailure(t *testing.T) {
	m := NewSecurityManager("p1")

	_, err := m.DecryptFile(filepath.Join(t.TempDir(), "missing.enc"))
	assert.ErrorIs(t, err, common.ErrIOFailure)
	assert.False(t, errors.Is(err, common.ErrAuthFailure))
}

func TestDecryptJSON_CorruptDataDistinctFromAuthFailure(t *testing.T) {
	m := NewSecurityManager("p1")

	// Valid encryption of something that is not JSON.
	blob, err := m.EncryptBytes([]byte("not json at all"))
	require.NoError(t, err)

	var v map[string]any
	err = m.DecryptJSON(blob, &v)
	assert.ErrorIs(t, err, common.ErrCorruptData)
	assert.False(t, errors.Is(err, common.ErrAuthFailure))
}

func TestEncryptJSON_RoundTrip(t *testing.T) {
	m := NewSecurityManager("p1")

	in := map[string]string{"Name": "Ada", "Branch": "Salem"}
	blob, err := m.EncryptJSON(in)
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, m.DecryptJSON(blob, &out))
	assert.Equal(t, in, out)
}
