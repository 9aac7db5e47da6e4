package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/logging"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(t.TempDir(), logging.NewNopLogger())
}

func TestSetupAndLogin(t *testing.T) {
	m := newManager(t)
	assert.False(t, m.Configured())

	s, err := m.Setup("secret")
	require.NoError(t, err)
	require.True(t, s.Active())
	assert.True(t, m.Configured())

	pw, err := s.Password()
	require.NoError(t, err)
	assert.Equal(t, "secret", pw)

	s2, err := m.Login("secret")
	require.NoError(t, err)
	assert.True(t, s2.Active())
}

func TestSetup_RefusesSecondCredential(t *testing.T) {
	m := newManager(t)
	_, err := m.Setup("secret")
	require.NoError(t, err)

	_, err = m.Setup("other")
	assert.Error(t, err)
}

func TestSetup_EmptyPassword(t *testing.T) {
	m := newManager(t)
	_, err := m.Setup("")
	assert.Error(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	m := newManager(t)
	_, err := m.Setup("secret")
	require.NoError(t, err)

	_, err = m.Login("wrong")
	assert.ErrorIs(t, err, common.ErrAuthFailure)
}

func TestLogin_NotConfigured(t *testing.T) {
	m := newManager(t)
	_, err := m.Login("anything")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLogin_CorruptCredentialFile(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, logging.NewNopLogger())
	require.NoError(t, os.WriteFile(filepath.Join(dir, AuthFileName), []byte("{broken"), 0o600))

	_, err := m.Login("anything")
	assert.ErrorIs(t, err, common.ErrCorruptData)
}

func TestCredentialFilePermissions(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, logging.NewNopLogger())
	_, err := m.Setup("secret")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, AuthFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestChangePassword(t *testing.T) {
	m := newManager(t)
	s, err := m.Setup("old")
	require.NoError(t, err)

	require.NoError(t, m.ChangePassword(s, "old", "new"))

	pw, err := s.Password()
	require.NoError(t, err)
	assert.Equal(t, "new", pw)

	_, err = m.Login("old")
	assert.ErrorIs(t, err, common.ErrAuthFailure)
	_, err = m.Login("new")
	assert.NoError(t, err)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	m := newManager(t)
	s, err := m.Setup("old")
	require.NoError(t, err)

	err = m.ChangePassword(s, "wrong", "new")
	assert.ErrorIs(t, err, common.ErrAuthFailure)

	// stored credential untouched
	_, err = m.Login("old")
	assert.NoError(t, err)
}

func TestClosedSession(t *testing.T) {
	m := newManager(t)
	s, err := m.Setup("secret")
	require.NoError(t, err)

	s.Close()
	assert.False(t, s.Active())

	_, err = s.Password()
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	_, err = s.Security()
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)

	err = m.ChangePassword(s, "secret", "x")
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}
