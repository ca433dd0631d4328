package purldb

import (
	"sort"
	"time"

	"github.com/git-pkgs/vers"
)

// License returns the SPDX license expression of pkg, falling back to the
// declared expression. It returns "" when neither is known.
func License(pkg *Package) string {
	if pkg == nil {
		return ""
	}
	if pkg.DeclaredLicenseExpressionSPDX != "" {
		return pkg.DeclaredLicenseExpressionSPDX
	}
	return pkg.DeclaredLicenseExpression
}

// HasMetadata reports whether pkg carries any descriptive field worth showing.
func HasMetadata(pkg *Package) bool {
	if pkg == nil {
		return false
	}
	return pkg.Description != "" ||
		pkg.HomepageURL != "" ||
		pkg.RepositoryHomepageURL != "" ||
		pkg.ReleaseDate != "" ||
		len(pkg.Keywords) > 0
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseReleaseDate parses the release_date formats PurlDB emits.
func ParseReleaseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a release date as "Jan 2, 2006". Unparseable input is
// returned unchanged.
func FormatDate(s string) string {
	t, ok := ParseReleaseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// SortVersions returns a copy of versions ordered newest first. Dated records
// come before undated ones; undated records are ordered by version, highest
// first.
func SortVersions(versions []Package) []Package {
	sorted := make([]Package, len(versions))
	copy(sorted, versions)

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, iok := ParseReleaseDate(sorted[i].ReleaseDate)
		tj, jok := ParseReleaseDate(sorted[j].ReleaseDate)
		switch {
		case iok && jok:
			return ti.After(tj)
		case iok:
			return true
		case jok:
			return false
		default:
			return vers.Compare(sorted[i].Version, sorted[j].Version) > 0
		}
	})
	return sorted
}

// VersionEntry is one row of a version list.
type VersionEntry struct {
	Version     string `json:"version"`
	PURL        string `json:"purl"`
	ReleaseDate string `json:"release_date,omitempty"`
	Current     bool   `json:"current,omitempty"`
}

// VersionList is the sorted, truncated view of a package's versions.
type VersionList struct {
	Entries []VersionEntry `json:"entries"`
	Total   int            `json:"total"`
	HasMore bool           `json:"has_more"`
}

// BuildVersionList sorts versions, drops records without a version and keeps
// at most limit entries (all of them when limit <= 0). The entry whose PURL
// equals currentPURL is flagged as current.
func BuildVersionList(versions []Package, currentPURL string, limit int) VersionList {
	var entries []VersionEntry
	for _, v := range SortVersions(versions) {
		if v.Version == "" {
			continue
		}
		entries = append(entries, VersionEntry{
			Version:     v.Version,
			PURL:        v.PURL,
			ReleaseDate: v.ReleaseDate,
			Current:     v.PURL == currentPURL,
		})
	}

	list := VersionList{Total: len(entries)}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
		list.HasMore = true
	}
	list.Entries = entries
	return list
}

// DependencyGroup is the dependencies sharing a scope.
type DependencyGroup struct {
	Scope        string       `json:"scope"`
	Dependencies []Dependency `json:"dependencies"`
}

// GroupDependencies groups deps by scope in first-seen order. An empty scope
// counts as "runtime".
func GroupDependencies(deps []Dependency) []DependencyGroup {
	var groups []DependencyGroup
	index := make(map[string]int)

	for _, dep := range deps {
		scope := dep.Scope
		if scope == "" {
			scope = "runtime"
		}
		i, ok := index[scope]
		if !ok {
			i = len(groups)
			index[scope] = i
			groups = append(groups, DependencyGroup{Scope: scope})
		}
		groups[i].Dependencies = append(groups[i].Dependencies, dep)
	}
	return groups
}
