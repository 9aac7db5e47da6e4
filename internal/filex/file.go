// Package filex contains small filesystem helpers: directory bootstrapping
// and atomic whole-file replacement.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/workvault/workvault/internal/common"
)

// EnsureDir creates dir (and parents) if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", common.ErrIOFailure, dir, err)
	}
	return nil
}

// AtomicWriteFile writes data to a temporary file next to path and renames it
// into place. An interrupted write leaves either the previous file or the new
// one, never a half-written file.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", common.ErrIOFailure, err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmpName)
		if werr != nil {
			return fmt.Errorf("%w: write temp file: %v", common.ErrIOFailure, werr)
		}
		return fmt.Errorf("%w: close temp file: %v", common.ErrIOFailure, cerr)
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: chmod temp file: %v", common.ErrIOFailure, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename into place: %v", common.ErrIOFailure, err)
	}
	return nil
}
