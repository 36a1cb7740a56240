package domain

import (
	"path/filepath"
	"time"
)

// DefaultDebounce is the quiet period the watcher waits for before reloading the manifest.
const DefaultDebounce = 100 * time.Millisecond

// Config is the resolved tool configuration for one project directory.
type Config struct {
	// Root is the absolute project directory.
	Root string
	// ProjectName is the name written into newly created manifests.
	ProjectName string
	// Manifest is the manifest file name, relative to Root.
	Manifest string
	// RangeOperator prefixes resolved versions of untracked packages on sync.
	RangeOperator string
	// ComponentsDir is the directory installed packages live in, relative to Root.
	ComponentsDir string
	// Debounce is the watcher's quiet period.
	Debounce time.Duration
	// Listen is the address the watch daemon serves status on. Empty disables the server.
	Listen string
}

// DefaultConfig returns the configuration used when no config file is present.
func DefaultConfig(root string) *Config {
	name := filepath.Base(root)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = DefaultAppName
	}
	return &Config{
		Root:          root,
		ProjectName:   name,
		Manifest:      ManifestFileName,
		RangeOperator: DefaultRangeOperator,
		ComponentsDir: DefaultComponentsDir,
		Debounce:      DefaultDebounce,
	}
}

// ManifestPath returns the absolute manifest path.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Root, c.Manifest)
}

// ComponentsPath returns the absolute components directory.
func (c *Config) ComponentsPath() string {
	if filepath.IsAbs(c.ComponentsDir) {
		return c.ComponentsDir
	}
	return filepath.Join(c.Root, c.ComponentsDir)
}
