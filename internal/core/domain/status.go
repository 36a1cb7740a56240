package domain

import "time"

// Status is the dependency state published by the watch daemon after each reload.
type Status struct {
	// Manifest is the absolute manifest path.
	Manifest string `json:"manifest"`
	// Dependencies is the cached snapshot.
	Dependencies DependencySnapshot `json:"dependencies"`
	// Diff is the reconciliation against the installed packages.
	Diff SyncDiff `json:"diff"`
	// Error is set when the last reload failed.
	Error string `json:"error,omitempty"`
	// UpdatedAt is the time of the last reload.
	UpdatedAt time.Time `json:"updatedAt"`
}

// InSync reports whether the manifest matches the installed packages.
func (s Status) InSync() bool {
	return s.Error == "" && s.Diff.IsEmpty()
}
