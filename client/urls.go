// Package client builds the outbound links shown next to a PURL: its
// registry page, vulnerability search, PurlDB record, deps.dev page and a
// shareable viewer link.
package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/git-pkgs/purl"
	"github.com/s-celles/package-url-viewer/internal/core"
)

const (
	VulnerableCodeSearchURL = "https://public.vulnerablecode.io/packages/search"
	PurlDBAPIURL            = "https://public.purldb.io/api/packages/"
	DepsDevURL              = "https://deps.dev"
	DefaultViewerURL        = "https://s-celles.github.io/package-url-viewer/"
)

// URLBuilder constructs links for a PURL string.
type URLBuilder interface {
	Registry(purl string) string
	VulnerableCode(purl string) string
	PurlDB(purl string) string
	DepsDev(purl string) string
	Share(purl string) string
}

// BaseURLs provides a URLBuilder whose links are produced by optional
// functions. Unset functions produce no link.
type BaseURLs struct {
	RegistryFn       func(purl string) string
	VulnerableCodeFn func(purl string) string
	PurlDBFn         func(purl string) string
	DepsDevFn        func(purl string) string
	ShareFn          func(purl string) string
}

func (b *BaseURLs) Registry(purl string) string {
	if b.RegistryFn != nil {
		return b.RegistryFn(purl)
	}
	return ""
}

func (b *BaseURLs) VulnerableCode(purl string) string {
	if b.VulnerableCodeFn != nil {
		return b.VulnerableCodeFn(purl)
	}
	return ""
}

func (b *BaseURLs) PurlDB(purl string) string {
	if b.PurlDBFn != nil {
		return b.PurlDBFn(purl)
	}
	return ""
}

func (b *BaseURLs) DepsDev(purl string) string {
	if b.DepsDevFn != nil {
		return b.DepsDevFn(purl)
	}
	return ""
}

func (b *BaseURLs) Share(purl string) string {
	if b.ShareFn != nil {
		return b.ShareFn(purl)
	}
	return ""
}

// NewLinks returns the URLBuilder used by the viewer. viewerURL and
// purldbURL default to the public instances when empty.
func NewLinks(viewerURL, purldbURL string) *BaseURLs {
	if viewerURL == "" {
		viewerURL = DefaultViewerURL
	}
	if purldbURL == "" {
		purldbURL = PurlDBAPIURL
	}
	return &BaseURLs{
		RegistryFn: RegistryURL,
		VulnerableCodeFn: func(p string) string {
			return VulnerableCode(p).URL
		},
		PurlDBFn: func(p string) string {
			return purldbURL + "?purl=" + EncodeURIComponent(p)
		},
		DepsDevFn: DepsDev,
		ShareFn: func(p string) string {
			return ShareURL(viewerURL, p)
		},
	}
}

// BuildURLs returns a map of all non-empty links for a PURL.
// Keys are "registry", "vulnerablecode", "purldb", "depsdev", and "share".
func BuildURLs(urls URLBuilder, purl string) map[string]string {
	result := make(map[string]string)
	if v := urls.Registry(purl); v != "" {
		result["registry"] = v
	}
	if v := urls.VulnerableCode(purl); v != "" {
		result["vulnerablecode"] = v
	}
	if v := urls.PurlDB(purl); v != "" {
		result["purldb"] = v
	}
	if v := urls.DepsDev(purl); v != "" {
		result["depsdev"] = v
	}
	if v := urls.Share(purl); v != "" {
		result["share"] = v
	}
	return result
}

// VulnerableCodeResult is a link to the VulnerableCode package search.
type VulnerableCodeResult struct {
	URL         string `json:"url"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// VulnerableCode builds the VulnerableCode search link for a PURL.
func VulnerableCode(purl string) VulnerableCodeResult {
	return VulnerableCodeResult{
		URL:         VulnerableCodeSearchURL + "?search=" + EncodeURIComponent(purl),
		Label:       "Check vulnerabilities",
		Description: "Search for known vulnerabilities in VulnerableCode database",
	}
}

// PurlDB builds the public PurlDB API link for a PURL.
func PurlDB(purl string) string {
	return PurlDBAPIURL + "?purl=" + EncodeURIComponent(purl)
}

// RegistryURL parses purl and returns its registry page, or "" if the PURL is
// invalid or has no direct link.
func RegistryURL(purl string) string {
	p, err := core.Parse(purl)
	if err != nil {
		return ""
	}
	return core.Resolve(p).URL
}

// DepsDev returns the deps.dev page for ecosystems deps.dev indexes, or "".
func DepsDev(purlStr string) string {
	p, err := purl.Parse(purlStr)
	if err != nil {
		return ""
	}

	system := purl.PURLTypeToDepsdev(p.Type)
	if system == "" {
		return ""
	}

	u := fmt.Sprintf("%s/%s/%s", DepsDevURL, strings.ToLower(system), url.PathEscape(p.FullName()))
	if p.Version != "" {
		u += "/" + url.PathEscape(p.Version)
	}
	return u
}

// ShareURL returns base with its purl query parameter set to purl.
// Other query parameters on base are kept.
func ShareURL(base, purl string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?purl=" + EncodeURIComponent(purl)
	}
	q := u.Query()
	q.Set("purl", purl)
	u.RawQuery = strings.ReplaceAll(q.Encode(), "+", "%20")
	return u.String()
}

// EncodeURIComponent escapes s for use as a single query parameter value.
// Spaces become %20 rather than '+'.
func EncodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
