// Package reconcile diffs the declared dependencies of a manifest against the
// packages that are actually installed.
package reconcile

import (
	"maps"
	"slices"

	"go.trai.ch/bowersync/internal/core/domain"
)

// Reconcile compares declared against resolved and classifies every difference.
//
// Missing packages carry the declared range and the classification of the
// mapping that declares them, production first, each group sorted by name.
// Untracked and out-of-sync packages keep the order of resolved. A resolved
// version is out of sync only when the declared range can be evaluated and
// does not accept it; URLs, tags and compound ranges are never flagged.
func Reconcile(declared domain.DependencySnapshot, resolved []domain.Package) domain.SyncDiff {
	diff := domain.SyncDiff{
		Missing:          []domain.Package{},
		Untracked:        []domain.Package{},
		VersionOutOfSync: []domain.Package{},
	}

	installed := make(map[string]struct{}, len(resolved))
	for _, pkg := range resolved {
		if _, seen := installed[pkg.Name]; seen {
			continue
		}
		installed[pkg.Name] = struct{}{}

		spec, _, declaredHere := declared.Lookup(pkg.Name)
		if !declaredHere {
			diff.Untracked = append(diff.Untracked, pkg)
			continue
		}
		if satisfied, comparable := domain.Satisfies(spec, pkg.Version); comparable && !satisfied {
			diff.VersionOutOfSync = append(diff.VersionOutOfSync, pkg)
		}
	}

	diff.Missing = appendMissing(diff.Missing, declared.Dependencies, installed, domain.Production)
	for name := range declared.Dependencies {
		// A name declared in both mappings is reported once, as production.
		installed[name] = struct{}{}
	}
	diff.Missing = appendMissing(diff.Missing, declared.DevDependencies, installed, domain.Development)

	return diff
}

func appendMissing(
	missing []domain.Package,
	mapping map[string]string,
	skip map[string]struct{},
	depType domain.DependencyType,
) []domain.Package {
	for _, name := range slices.Sorted(maps.Keys(mapping)) {
		if _, ok := skip[name]; ok {
			continue
		}
		missing = append(missing, domain.Package{Name: name, Version: mapping[name], Type: depType})
	}
	return missing
}
