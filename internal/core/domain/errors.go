package domain

import "go.trai.ch/zerr"

var (
	// ErrStorageReadFailed is returned when the underlying storage cannot be read.
	ErrStorageReadFailed = zerr.New("failed to read from storage")

	// ErrStorageWriteFailed is returned when the underlying storage cannot be written.
	ErrStorageWriteFailed = zerr.New("failed to write to storage")

	// ErrMalformedManifest is returned when the manifest content cannot be parsed.
	ErrMalformedManifest = zerr.New("malformed manifest")

	// ErrManifestEncodeFailed is returned when the manifest cannot be serialized.
	ErrManifestEncodeFailed = zerr.New("failed to encode manifest")

	// ErrManifestNotFound is returned when no manifest exists in the project directory.
	ErrManifestNotFound = zerr.New("manifest not found")

	// ErrManifestExists is returned when init would overwrite an existing manifest.
	ErrManifestExists = zerr.New("manifest already exists")

	// ErrNoUpdateData is returned when a package update carries no data or names an unknown package.
	ErrNoUpdateData = zerr.New("there is no data to update")

	// ErrNothingToSync is returned when a sync is requested with an empty diff.
	ErrNothingToSync = zerr.New("there is nothing to sync")

	// ErrUnknownDependencyType is returned when a dependency type name cannot be parsed.
	ErrUnknownDependencyType = zerr.New("unknown dependency type, expected 'production' or 'development'")

	// ErrInvalidConfig is returned when the tool configuration is invalid.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrComponentsScanFailed is returned when the installed components cannot be listed.
	ErrComponentsScanFailed = zerr.New("failed to scan installed components")

	// ErrWatchFailed is returned when the manifest watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch manifest")

	// ErrStatusServerFailed is returned when the status server cannot listen or serve.
	ErrStatusServerFailed = zerr.New("failed to serve dependency status")
)
