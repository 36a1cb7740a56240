// Package fs implements ports.FileSystem on the local disk.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*OSFS)(nil)

// OSFS implements ports.FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// ReadFile reads the entire file at path.
func (o *OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- path is validated by caller
	return os.ReadFile(path)
}

// WriteFile writes data to a temporary file next to path and renames it into
// place, so the target is replaced in one step.
func (o *OSFS) WriteFile(path string, data []byte, perm iofs.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "dir", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temporary file"), "dir", dir)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write temporary file")
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to sync temporary file")
	}
	if err = tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temporary file")
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return zerr.Wrap(err, "failed to set file mode")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace file"), "path", path)
	}
	return nil
}

// Exists reports whether a regular file exists at path.
func (o *OSFS) Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// ReadDir lists the entries of the directory at path.
func (o *OSFS) ReadDir(path string) ([]iofs.DirEntry, error) {
	return os.ReadDir(path)
}
