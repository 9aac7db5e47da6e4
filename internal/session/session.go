// Package session owns the stored verification credential and the active
// password for one authenticated session. The password lives in an explicit
// Session value handed to callers; there is no process-wide password state.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/cryptox"
	"github.com/workvault/workvault/internal/filex"
	"github.com/workvault/workvault/internal/logging"
)

// AuthFileName is the credential file kept next to the database.
const AuthFileName = "prog_auth.json"

// Session carries the password verified at login. It is inert after Close.
type Session struct {
	password string
	active   bool
}

// Active reports whether the session still holds a verified password.
func (s *Session) Active() bool {
	return s != nil && s.active
}

// Password returns the session's password, or ErrNotAuthenticated once the
// session is closed or was never established.
func (s *Session) Password() (string, error) {
	if !s.Active() {
		return "", common.ErrNotAuthenticated
	}
	return s.password, nil
}

// Security returns a SecurityManager bound to the session password.
func (s *Session) Security() (*cryptox.SecurityManager, error) {
	pw, err := s.Password()
	if err != nil {
		return nil, err
	}
	return cryptox.NewSecurityManager(pw), nil
}

// Close deactivates the session.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.password = ""
	s.active = false
}

// Manager reads and writes the credential file and issues sessions.
type Manager struct {
	path string
	log  logging.Logger
}

// NewManager stores the credential under dir.
func NewManager(dir string, log logging.Logger) *Manager {
	return &Manager{path: filepath.Join(dir, AuthFileName), log: log}
}

// Configured reports whether a credential has been set up.
func (m *Manager) Configured() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

func (m *Manager) load() (*cryptox.Credential, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: credential not configured", common.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: read credential file: %v", common.ErrIOFailure, err)
	}
	var cred cryptox.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptData, err)
	}
	return &cred, nil
}

func (m *Manager) save(cred *cryptox.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}
	if err := filex.EnsureDir(filepath.Dir(m.path)); err != nil {
		return err
	}
	return filex.AtomicWriteFile(m.path, data, 0o600)
}

// Setup derives and stores a fresh credential for password and returns an
// active session. It refuses to overwrite an existing credential.
func (m *Manager) Setup(password string) (*Session, error) {
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if m.Configured() {
		return nil, fmt.Errorf("credential already configured")
	}

	cred, err := cryptox.DeriveCredential(password)
	if err != nil {
		return nil, err
	}
	if err := m.save(cred); err != nil {
		return nil, err
	}
	m.log.Info("credential configured", "path", m.path)
	return &Session{password: password, active: true}, nil
}

// Login verifies password against the stored credential. A wrong password is
// ErrAuthFailure; a missing credential is ErrNotFound.
func (m *Manager) Login(password string) (*Session, error) {
	cred, err := m.load()
	if err != nil {
		return nil, err
	}
	if !cryptox.Verify(password, cred) {
		return nil, common.ErrAuthFailure
	}
	return &Session{password: password, active: true}, nil
}

// ChangePassword verifies current, replaces the stored credential wholesale
// with one for next, and rebinds s to the new password. Re-encrypting stored
// rows is the caller's job and must happen before the credential swap.
func (m *Manager) ChangePassword(s *Session, current, next string) error {
	if !s.Active() {
		return common.ErrNotAuthenticated
	}
	if next == "" {
		return fmt.Errorf("new password is required")
	}

	cred, err := m.load()
	if err != nil {
		return err
	}
	if !cryptox.Verify(current, cred) {
		return common.ErrAuthFailure
	}

	newCred, err := cryptox.DeriveCredential(next)
	if err != nil {
		return err
	}
	if err := m.save(newCred); err != nil {
		return err
	}
	s.password = next
	m.log.Info("credential replaced")
	return nil
}
