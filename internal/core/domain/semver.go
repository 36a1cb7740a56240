package domain

import (
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// DefaultRangeOperator is prefixed to resolved versions when untracked packages are added.
const DefaultRangeOperator = "^"

// rangeOperators is ordered so that two-character operators match first.
var rangeOperators = []string{">=", "<=", "^", "~", ">", "<", "="}

// DefaultSemverVersion turns a resolved version into the range written for a newly
// tracked package. Valid semantic versions get the operator prefix, an empty
// version becomes "*", and anything else (branches, tags, URLs) is kept as is.
func DefaultSemverVersion(version, operator string) string {
	v := strings.TrimSpace(version)
	if v == "" {
		return "*"
	}
	if _, ok := canonicalVersion(v); !ok {
		return v
	}
	return operator + v
}

// Satisfies reports whether version is accepted by the range spec.
//
// The second result is false when either side cannot be compared (URLs, tags,
// "*", "latest", compound ranges, non-semver versions); callers treat such
// pairs as in sync.
func Satisfies(spec, version string) (satisfied, comparable bool) {
	v, ok := canonicalVersion(version)
	if !ok {
		return false, false
	}

	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "*" || spec == "latest" || strings.ContainsAny(spec, "|/:#") {
		return false, false
	}

	op := ""
	for _, candidate := range rangeOperators {
		if strings.HasPrefix(spec, candidate) {
			op = candidate
			spec = strings.TrimSpace(spec[len(candidate):])
			break
		}
	}

	if strings.Contains(spec, " ") {
		return false, false
	}

	base, parts, ok := parseRangeBase(spec)
	if !ok {
		return false, false
	}

	cmp := semver.Compare(v, base)
	switch op {
	case "", "=":
		if parts == 3 {
			return cmp == 0, true
		}
		return samePrefix(v, base, parts), true
	case "^":
		if cmp < 0 {
			return false, true
		}
		if semver.Major(base) != "v0" || parts == 1 {
			return semver.Major(v) == semver.Major(base), true
		}
		return semver.MajorMinor(v) == semver.MajorMinor(base), true
	case "~":
		if cmp < 0 {
			return false, true
		}
		return samePrefix(v, base, min(parts, 2)), true
	case ">=":
		return cmp >= 0, true
	case ">":
		return cmp > 0, true
	case "<=":
		return cmp <= 0, true
	case "<":
		return cmp < 0, true
	}
	return false, false
}

// canonicalVersion converts "1.2.3" or "v1.2.3" into the "v"-prefixed form semver expects.
func canonicalVersion(version string) (string, bool) {
	v := "v" + strings.TrimPrefix(strings.TrimSpace(version), "v")
	if !semver.IsValid(v) {
		return "", false
	}
	return v, true
}

// parseRangeBase parses "1", "1.2", "1.2.3", "1.x", "1.2.*" or "1.2.3-beta".
// It returns the lowest version the base accepts and the number of concrete parts.
func parseRangeBase(s string) (string, int, bool) {
	s = strings.TrimPrefix(s, "v")
	core, suffix := s, ""
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		core, suffix = s[:i], s[i:]
	}

	fields := strings.Split(core, ".")
	if len(fields) > 3 {
		return "", 0, false
	}

	concrete := 0
	for _, f := range fields {
		if isWildcard(f) {
			break
		}
		if f == "" || strings.Trim(f, "0123456789") != "" {
			return "", 0, false
		}
		concrete++
	}
	for _, f := range fields[concrete:] {
		if !isWildcard(f) {
			return "", 0, false
		}
	}
	if concrete == 0 || (suffix != "" && concrete < 3) {
		return "", 0, false
	}

	nums := slices.Clone(fields[:concrete])
	for len(nums) < 3 {
		nums = append(nums, "0")
	}
	base := "v" + strings.Join(nums, ".") + suffix
	if !semver.IsValid(base) {
		return "", 0, false
	}
	return base, concrete, true
}

func isWildcard(f string) bool {
	return f == "x" || f == "X" || f == "*"
}

func samePrefix(v, base string, parts int) bool {
	switch parts {
	case 1:
		return semver.Major(v) == semver.Major(base)
	case 2:
		return semver.MajorMinor(v) == semver.MajorMinor(base)
	default:
		return semver.Compare(v, base) == 0
	}
}
