// Package viewer parses Package URLs (PURLs) and links them to the places
// a package can be looked at.
//
// Parsing validates the PURL grammar and checks the type against the 38
// types of the PURL specification. Resolving a parsed PURL yields the page
// of its package registry, or a message explaining why there is none:
//
//	import "github.com/s-celles/package-url-viewer"
//
//	p, err := viewer.Parse("pkg:npm/lodash@4.17.21")
//	if err != nil {
//		fmt.Println(viewer.CodeOf(err), err)
//		return
//	}
//	r := viewer.Resolve(p)
//	fmt.Println(r.RegistryName, r.URL)
//
// Badges for READMEs are built from the raw PURL string:
//
//	for _, b := range viewer.Badges("pkg:npm/lodash@4.17.21") {
//		fmt.Println(b.Markdown)
//	}
//
// The purldb subpackage looks packages up in PurlDB, and the client
// subpackage builds links to VulnerableCode, PurlDB and deps.dev.
package viewer

import (
	"github.com/s-celles/package-url-viewer/badge"
	"github.com/s-celles/package-url-viewer/client"
	"github.com/s-celles/package-url-viewer/internal/core"
)

// Re-export types from internal/core
type (
	// PackageURL is a parsed PURL.
	PackageURL = core.PackageURL

	// Type is a PURL package type such as "npm" or "pypi".
	Type = core.Type

	// ErrorCode classifies a parse failure.
	ErrorCode = core.ErrorCode

	// ParseError is the error returned by Parse.
	ParseError = core.ParseError

	// ParseResult is either a parsed PURL or a ParseError.
	ParseResult = core.ParseResult

	// Mapping describes the registry of a package type.
	Mapping = core.Mapping

	// RegistryResult is the outcome of Resolve.
	RegistryResult = core.RegistryResult
)

// Re-export types from badge
type (
	Badge        = badge.Result
	BadgeVariant = badge.Variant
)

// Re-export constants
const (
	InvalidFormat    = core.InvalidFormat
	MissingType      = core.MissingType
	MissingName      = core.MissingName
	UnknownType      = core.UnknownType
	InvalidComponent = core.InvalidComponent

	Versioned = badge.Versioned
	Latest    = badge.Latest
)

// Parse parses and validates a PURL string. Failures are *ParseError.
func Parse(input string) (PackageURL, error) {
	return core.Parse(input)
}

// ParseToResult parses input and reports the outcome as a ParseResult.
func ParseToResult(input string) ParseResult {
	return core.ParseToResult(input)
}

// CodeOf returns the ErrorCode carried by err, or "".
func CodeOf(err error) ErrorCode {
	return core.CodeOf(err)
}

// ErrorMessage returns the user-facing message for a parse error code.
func ErrorMessage(code ErrorCode, details string) string {
	return core.ErrorMessage(code, details)
}

// IsKnownType reports whether t is one of the recognised package types.
// The check is case-sensitive.
func IsKnownType(t string) bool {
	return core.IsKnownType(t)
}

// KnownTypes returns the recognised package types in sorted order.
func KnownTypes() []Type {
	return core.KnownTypes()
}

// Resolve returns the registry page for a parsed PURL, or a message
// explaining why there is none.
func Resolve(purl PackageURL) RegistryResult {
	return core.Resolve(purl)
}

// LookupMapping returns the registry mapping for a package type.
func LookupMapping(t string) (Mapping, bool) {
	return core.LookupMapping(t)
}

// Mappings returns the registry mapping of every known type.
func Mappings() []Mapping {
	return core.Mappings()
}

// StripVersion removes the version from a raw PURL string.
func StripVersion(purl string) string {
	return badge.StripVersion(purl)
}

// HasVersion reports whether a raw PURL string carries a version.
func HasVersion(purl string) bool {
	return badge.HasVersion(purl)
}

// GenerateBadge builds a badge linking to the public viewer.
func GenerateBadge(purl string, variant BadgeVariant) Badge {
	return badge.Generate(purl, variant)
}

// Badges returns the versioned and latest badges for purl, or only the
// latest badge when purl has no version.
func Badges(purl string) []Badge {
	return badge.Badges(purl)
}

// Links returns the non-empty related links for purl keyed by "registry",
// "vulnerablecode", "purldb", "depsdev" and "share".
func Links(purl string) map[string]string {
	return client.BuildURLs(client.NewLinks(client.DefaultViewerURL, client.PurlDBAPIURL), purl)
}
