package ports

import "io/fs"

// FileSystem abstracts the file I/O the manifest engine and its adapters need.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the file at path with data. The replacement is atomic:
	// readers observe either the old or the new content, never a partial write.
	WriteFile(path string, data []byte, perm fs.FileMode) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) (bool, error)
	// ReadDir lists the entries of the directory at path.
	ReadDir(path string) ([]fs.DirEntry, error)
}
