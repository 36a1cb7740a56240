package domain

// SyncDiff is the three-way difference between the manifest and the installed packages.
type SyncDiff struct {
	// Missing packages are declared in the manifest but not installed. Sync removes them.
	Missing []Package `json:"missing"`
	// Untracked packages are installed but not declared. Sync adds them as production dependencies.
	Untracked []Package `json:"untracked"`
	// VersionOutOfSync packages are installed with a version the declared range does not accept.
	// Sync overwrites the declared version in place.
	VersionOutOfSync []Package `json:"versionOutOfSync"`
}

// IsEmpty reports whether there is nothing to sync.
func (d *SyncDiff) IsEmpty() bool {
	return d == nil || (len(d.Missing) == 0 && len(d.Untracked) == 0 && len(d.VersionOutOfSync) == 0)
}

// SyncResult summarizes an applied sync.
type SyncResult struct {
	Removed   []Package `json:"removed"`
	Installed []Package `json:"installed"`
	Updated   []Package `json:"updated"`
}
