package purldb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLicense(t *testing.T) {
	tests := []struct {
		name string
		pkg  *Package
		want string
	}{
		{"nil", nil, ""},
		{"spdx preferred", &Package{DeclaredLicenseExpression: "mit", DeclaredLicenseExpressionSPDX: "MIT"}, "MIT"},
		{"declared fallback", &Package{DeclaredLicenseExpression: "apache-2.0"}, "apache-2.0"},
		{"none", &Package{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := License(tt.pkg); got != tt.want {
				t.Errorf("License() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasMetadata(t *testing.T) {
	tests := []struct {
		name string
		pkg  *Package
		want bool
	}{
		{"nil", nil, false},
		{"empty", &Package{Name: "x", Version: "1.0"}, false},
		{"description", &Package{Description: "d"}, true},
		{"homepage", &Package{HomepageURL: "https://example.com"}, true},
		{"repository", &Package{RepositoryHomepageURL: "https://github.com/x/y"}, true},
		{"release date", &Package{ReleaseDate: "2024-01-01"}, true},
		{"keywords", &Package{Keywords: []string{"k"}}, true},
		{"empty keywords", &Package{Keywords: []string{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasMetadata(tt.pkg); got != tt.want {
				t.Errorf("HasMetadata() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortVersions(t *testing.T) {
	input := []Package{
		{Version: "1.0.0"},
		{Version: "2.0.0", ReleaseDate: "2023-01-01T00:00:00Z"},
		{Version: "10.0.0"},
		{Version: "3.0.0", ReleaseDate: "2024-06-01"},
		{Version: "2.5.0", ReleaseDate: "not a date"},
	}

	got := SortVersions(input)
	var order []string
	for _, p := range got {
		order = append(order, p.Version)
	}

	want := []string{"3.0.0", "2.0.0", "10.0.0", "2.5.0", "1.0.0"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("SortVersions() order mismatch (-want +got):\n%s", diff)
	}

	if input[0].Version != "1.0.0" {
		t.Error("SortVersions modified its input")
	}
}

func TestBuildVersionList(t *testing.T) {
	var versions []Package
	for i, v := range []string{"1.0.0", "1.1.0", "1.2.0", "1.3.0", "", "1.4.0"} {
		versions = append(versions, Package{
			PURL:        "pkg:npm/x@" + v,
			Version:     v,
			ReleaseDate: []string{"2020-01-01", "2020-02-01", "2020-03-01", "2020-04-01", "2020-05-01", "2020-06-01"}[i],
		})
	}

	list := BuildVersionList(versions, "pkg:npm/x@1.3.0", 3)

	if list.Total != 5 {
		t.Errorf("Total = %d, want 5 (record without version dropped)", list.Total)
	}
	if !list.HasMore {
		t.Error("HasMore = false, want true")
	}

	want := []VersionEntry{
		{Version: "1.4.0", PURL: "pkg:npm/x@1.4.0", ReleaseDate: "2020-06-01"},
		{Version: "1.3.0", PURL: "pkg:npm/x@1.3.0", ReleaseDate: "2020-04-01", Current: true},
		{Version: "1.2.0", PURL: "pkg:npm/x@1.2.0", ReleaseDate: "2020-03-01"},
	}
	if diff := cmp.Diff(want, list.Entries); diff != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", diff)
	}

	all := BuildVersionList(versions, "", 0)
	if len(all.Entries) != 5 || all.HasMore {
		t.Errorf("unlimited list = %d entries, HasMore %v", len(all.Entries), all.HasMore)
	}

	empty := BuildVersionList(nil, "", MaxVersionsDisplay)
	if empty.Total != 0 || len(empty.Entries) != 0 || empty.HasMore {
		t.Errorf("empty list = %+v", empty)
	}
}

func TestGroupDependencies(t *testing.T) {
	deps := []Dependency{
		{PURL: "pkg:npm/a", Scope: "dependencies"},
		{PURL: "pkg:npm/b", Scope: ""},
		{PURL: "pkg:npm/c", Scope: "devDependencies", IsOptional: true},
		{PURL: "pkg:npm/d", Scope: "dependencies"},
		{PURL: "pkg:npm/e", Scope: "runtime"},
	}

	want := []DependencyGroup{
		{Scope: "dependencies", Dependencies: []Dependency{deps[0], deps[3]}},
		{Scope: "runtime", Dependencies: []Dependency{deps[1], deps[4]}},
		{Scope: "devDependencies", Dependencies: []Dependency{deps[2]}},
	}
	if diff := cmp.Diff(want, GroupDependencies(deps)); diff != "" {
		t.Errorf("GroupDependencies() mismatch (-want +got):\n%s", diff)
	}

	if got := GroupDependencies(nil); len(got) != 0 {
		t.Errorf("GroupDependencies(nil) = %v, want empty", got)
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2021-02-20T00:00:00Z", "Feb 20, 2021"},
		{"2021-02-20", "Feb 20, 2021"},
		{"2021-02-20T13:14:15", "Feb 20, 2021"},
		{"", ""},
		{"yesterday", "yesterday"},
	}

	for _, tt := range tests {
		if got := FormatDate(tt.input); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
