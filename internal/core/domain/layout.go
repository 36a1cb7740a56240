package domain

import "path/filepath"

const (
	// ManifestFileName is the default name of the dependency manifest.
	ManifestFileName = "bower.json"

	// ComponentManifestFileName is the metadata file written into each installed component.
	ComponentManifestFileName = ".bower.json"

	// BowerrcFileName is the name of the package manager's project configuration file.
	BowerrcFileName = ".bowerrc"

	// DefaultComponentsDir is the directory packages are installed into when .bowerrc sets none.
	DefaultComponentsDir = "bower_components"

	// ConfigFileName is the name of the optional tool configuration file.
	ConfigFileName = "bowersync.yaml"

	// DefaultAppName is used for new manifests when the project has no name.
	DefaultAppName = "your-app-name"

	// ManifestIndent is the indentation used when serializing manifests.
	ManifestIndent = "    "

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// ManifestPath returns the manifest path inside dir.
func ManifestPath(dir string) string {
	return filepath.Join(dir, ManifestFileName)
}
