// Package badge strips versions from PURL strings and builds Markdown badges
// that link to the PURL viewer.
package badge

import (
	"fmt"
	"strings"

	"github.com/s-celles/package-url-viewer/client"
)

const (
	// ImageURL is the static shields.io badge image.
	ImageURL = "https://img.shields.io/badge/PURL-viewer-blue"

	// DefaultViewerURL is the public PURL viewer.
	DefaultViewerURL = "https://s-celles.github.io/package-url-viewer/"
)

// Variant selects whether a badge pins the version.
type Variant string

const (
	Versioned Variant = "versioned"
	Latest    Variant = "latest"
)

// Label returns the human readable name of the variant.
func (v Variant) Label() string {
	if v == Versioned {
		return "Current version"
	}
	return "Latest"
}

// Result is a generated badge.
type Result struct {
	ImageURL    string  `json:"image_url"`
	LinkURL     string  `json:"link_url"`
	Markdown    string  `json:"markdown"`
	Label       string  `json:"label"`
	PURLDisplay string  `json:"purl"`
	Variant     Variant `json:"variant"`
}

// Generator builds badges pointing at a viewer instance.
type Generator struct {
	viewerURL string
}

// Option configures a Generator.
type Option func(*Generator)

// WithViewerURL points badge links at a self-hosted viewer.
func WithViewerURL(u string) Option {
	return func(g *Generator) {
		g.viewerURL = u
	}
}

// NewGenerator creates a badge generator for the public viewer unless
// WithViewerURL is given.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{viewerURL: DefaultViewerURL}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds one badge. The latest variant links to the version-less PURL.
func (g *Generator) Generate(purl string, variant Variant) Result {
	target := purl
	if variant == Latest {
		target = StripVersion(purl)
	}

	link := g.viewerURL + "?purl=" + client.EncodeURIComponent(target)
	return Result{
		ImageURL:    ImageURL,
		LinkURL:     link,
		Markdown:    fmt.Sprintf("[![PURL Viewer](%s)](%s)", ImageURL, link),
		Label:       variant.Label(),
		PURLDisplay: target,
		Variant:     variant,
	}
}

// Badges returns the versioned and latest badges when purl has a version,
// otherwise only the latest badge.
func (g *Generator) Badges(purl string) []Result {
	if HasVersion(purl) {
		return []Result{
			g.Generate(purl, Versioned),
			g.Generate(purl, Latest),
		}
	}
	return []Result{g.Generate(purl, Latest)}
}

var defaultGenerator = NewGenerator()

// Generate builds one badge for the public viewer.
func Generate(purl string, variant Variant) Result {
	return defaultGenerator.Generate(purl, variant)
}

// Badges returns every applicable badge for the public viewer.
func Badges(purl string) []Result {
	return defaultGenerator.Badges(purl)
}

// StripVersion removes the "@version" token from a raw PURL string, leaving
// qualifiers and subpath untouched. It works on the encoded string so that
// everything else is preserved byte for byte. Strings without a version,
// including ones that are not PURLs at all, are returned unchanged.
func StripVersion(s string) string {
	at := strings.LastIndex(s, "@")
	if at == -1 {
		return s
	}

	// An "@" directly after "pkg:type/" opens an npm style scope.
	schemeEnd := strings.Index(s, ":")
	typeEnd := indexFrom(s, "/", schemeEnd+1)
	if at == typeEnd+1 {
		next := indexFrom(s, "@", at+1)
		if next == -1 {
			return s
		}
		at = next
	}

	return s[:at] + s[versionEnd(s, at):]
}

// HasVersion reports whether StripVersion would change s.
func HasVersion(s string) bool {
	return StripVersion(s) != s
}

// versionEnd returns the index of the first '?' or '#' after at, or len(s).
func versionEnd(s string, at int) int {
	if i := strings.IndexAny(s[at:], "?#"); i >= 0 {
		return at + i
	}
	return len(s)
}

func indexFrom(s, substr string, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		return -1
	}
	i := strings.Index(s[from:], substr)
	if i == -1 {
		return -1
	}
	return from + i
}
