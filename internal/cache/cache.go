// Package cache implements the two-tier response cache: a plaintext tier on
// local temporary storage for non-sensitive payloads, and an encrypted tier
// inside the database for sensitive ones. The caller decides the tier; the
// cache never inspects payload content.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/filex"
	"github.com/workvault/workvault/internal/logging"
	"github.com/workvault/workvault/internal/session"
	cacherepo "github.com/workvault/workvault/internal/store/repositories/cache"
)

// Cache is a two-tier TTL cache. Eviction is lazy: entries are checked on
// read, and sensitive-tier reads opportunistically prune all expired rows.
type Cache struct {
	repo cacherepo.Repository
	sess *session.Session
	dir  string
	log  logging.Logger
	now  func() time.Time
}

// New returns a cache backed by repo for the sensitive tier and dir for the
// plaintext tier. An empty dir defaults to a subdirectory of os.TempDir.
// Key material is taken from sess per operation, so the sensitive tier
// always encrypts under the session's current password, including after a
// password change rebinds it.
func New(repo cacherepo.Repository, sess *session.Session, dir string, log logging.Logger) *Cache {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "workvault-cache")
	}
	return &Cache{repo: repo, sess: sess, dir: dir, log: log, now: time.Now}
}

// HashKey returns the one-way hash under which a logical key is stored on the
// filesystem, so file names never reveal query shapes.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// KeyWithSecret derives a cache key that binds base to a secret (such as an
// archive password) without ever embedding the secret itself.
func KeyWithSecret(base, secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base + ":" + hex.EncodeToString(sum[:])
}

type plainEntry struct {
	ExpiresAt int64           `json:"expires_at"`
	Value     json.RawMessage `json:"value"`
}

func (c *Cache) plainPath(key string) string {
	return filepath.Join(c.dir, HashKey(key)+".json")
}

// SetPlain stores value in the plaintext tier, overwriting unconditionally.
func (c *Cache) SetPlain(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	entry := plainEntry{ExpiresAt: c.now().Add(ttl).Unix(), Value: raw}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := filex.EnsureDir(c.dir); err != nil {
		return err
	}
	return filex.AtomicWriteFile(c.plainPath(key), data, 0o600)
}

// GetPlain loads a plaintext-tier entry into out. It reports false on a
// missing, structurally invalid, or expired entry; stale files are removed
// as a side effect.
func (c *Cache) GetPlain(key string, out any) (bool, error) {
	path := c.plainPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: read cache file: %v", common.ErrIOFailure, err)
	}

	var entry plainEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return false, nil
	}
	if c.now().Unix() >= entry.ExpiresAt {
		_ = os.Remove(path)
		return false, nil
	}
	if err := json.Unmarshal(entry.Value, out); err != nil {
		_ = os.Remove(path)
		return false, nil
	}
	return true, nil
}

// DeletePlain drops a plaintext-tier entry if present.
func (c *Cache) DeletePlain(key string) error {
	err := os.Remove(c.plainPath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: delete cache file: %v", common.ErrIOFailure, err)
	}
	return nil
}

// SetSensitive stores value in the encrypted tier under the active password.
func (c *Cache) SetSensitive(ctx context.Context, key string, value any, ttl time.Duration) error {
	sec, err := c.sess.Security()
	if err != nil {
		return err
	}
	enc, err := sec.EncryptJSON(value)
	if err != nil {
		return err
	}
	row := &cacherepo.Row{
		Key:       key,
		ExpiresAt: c.now().Add(ttl).Unix(),
		ValueEnc:  enc,
	}
	return c.repo.Set(ctx, row)
}

// GetSensitive loads an encrypted-tier entry into out. Expired rows are
// deleted and reported as misses. A decrypt failure is returned as is (an
// ErrAuthFailure must reach the caller, never masquerade as a miss).
func (c *Cache) GetSensitive(ctx context.Context, key string, out any) (bool, error) {
	c.pruneExpired(ctx)

	row, err := c.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if c.now().Unix() >= row.ExpiresAt {
		if err := c.repo.Delete(ctx, key); err != nil {
			c.log.Warn("failed to evict expired cache row", "key", key, "error", err)
		}
		return false, nil
	}

	sec, err := c.sess.Security()
	if err != nil {
		return false, err
	}
	if err := sec.DecryptJSON(row.ValueEnc, out); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteSensitive drops an encrypted-tier entry if present.
func (c *Cache) DeleteSensitive(ctx context.Context, key string) error {
	return c.repo.Delete(ctx, key)
}

// pruneExpired removes all expired sensitive rows. Best effort: a failure is
// logged and never blocks the read that triggered it.
func (c *Cache) pruneExpired(ctx context.Context) {
	if err := c.repo.DeleteExpired(ctx, c.now().Unix()); err != nil {
		c.log.Warn("failed to prune expired cache rows", "error", err)
	}
}
