package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/s-celles/package-url-viewer/badge"
	"github.com/s-celles/package-url-viewer/client"
	"github.com/s-celles/package-url-viewer/internal/core"
	"github.com/s-celles/package-url-viewer/purldb"
)

// report is the document printed by "inspect --json".
type report struct {
	Success        bool                         `json:"success"`
	Input          string                       `json:"input"`
	PURL           *core.PackageURL             `json:"purl,omitempty"`
	Error          *core.ParseError             `json:"error,omitempty"`
	Registry       *core.RegistryResult         `json:"registry,omitempty"`
	VulnerableCode *client.VulnerableCodeResult `json:"vulnerablecode,omitempty"`
	Links          map[string]string            `json:"links,omitempty"`
	Badges         []badge.Result               `json:"badges,omitempty"`
	Enrichment     *enrichment                  `json:"purldb,omitempty"`
}

// enrichment is what PurlDB knows about a PURL.
type enrichment struct {
	Package      *purldb.Package          `json:"package"`
	License      string                   `json:"license,omitempty"`
	Versions     purldb.VersionList       `json:"versions"`
	Dependencies []purldb.DependencyGroup `json:"dependencies,omitempty"`
	Errors       []string                 `json:"errors,omitempty"`
}

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		enrich bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <purl>",
		Short: "Parse a PURL and show its registry page and related links",
		Long: `Parse a Package URL, resolve the page of its package registry and print
links to VulnerableCode, PurlDB, deps.dev and the PURL viewer.

With --enrich the package is also looked up in PurlDB for its license,
available versions, details and dependencies.`,
		Example: `  purlview inspect pkg:npm/lodash@4.17.21
  purlview inspect --enrich pkg:pypi/django@4.2
  purlview inspect --json 'pkg:deb/debian/curl@7.88.1?distro=bookworm'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), args[0], enrich, asJSON)
		},
	}

	cmd.Flags().BoolVar(&enrich, "enrich", false, "look the package up in PurlDB")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON document")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, out io.Writer, input string, enrich, asJSON bool) error {
	logger := loggerFromContext(ctx)
	raw := strings.TrimSpace(input)

	purl, err := core.Parse(raw)
	if err != nil {
		var pe *core.ParseError
		if !errors.As(err, &pe) {
			return err
		}
		logger.Debug("parse failed", "input", raw, "code", pe.Code)
		if asJSON {
			if jerr := writeJSON(out, report{Input: raw, Error: pe}); jerr != nil {
				return jerr
			}
		}
		return err
	}

	registry := core.Resolve(purl)
	vc := client.VulnerableCode(raw)
	rep := report{
		Success:        true,
		Input:          raw,
		PURL:           &purl,
		Registry:       &registry,
		VulnerableCode: &vc,
		Links:          client.BuildURLs(c.links(), raw),
		Badges:         c.badges().Badges(raw),
	}

	if enrich {
		rep.Enrichment = c.enrich(ctx, logger, raw, purl)
	}

	if asJSON {
		return writeJSON(out, rep)
	}

	printComponents(out, purl)
	printRegistry(out, registry)
	printLinks(out, rep.Links)
	if rep.Enrichment != nil {
		printEnrichment(out, rep.Enrichment)
	}
	return nil
}

// enrich gathers PurlDB data. Failures are recorded on the result so the
// rest of the report can still be printed.
func (c *CLI) enrich(ctx context.Context, logger *log.Logger, raw string, purl core.PackageURL) *enrichment {
	db, transport := c.newPurlDB(logger)
	defer func() {
		logger.Debug("purldb breakers", "states", transport.BreakerStates())
	}()

	e := &enrichment{}

	pkg, err := db.FetchPackage(ctx, raw)
	if err != nil {
		logger.Warn("purldb package lookup failed", "err", err)
		e.Errors = append(e.Errors, err.Error())
	}
	e.Package = pkg
	e.License = purldb.License(pkg)

	versions, err := db.FetchVersions(ctx, purl.Type, purl.Namespace, purl.Name)
	if err != nil {
		logger.Warn("purldb versions lookup failed", "err", err)
		e.Errors = append(e.Errors, err.Error())
	}
	e.Versions = purldb.BuildVersionList(versions, raw, purldb.MaxVersionsDisplay)

	deps, err := db.Dependencies(ctx, pkg)
	if err != nil {
		logger.Warn("purldb dependencies lookup failed", "err", err)
		e.Errors = append(e.Errors, err.Error())
	}
	e.Dependencies = purldb.GroupDependencies(deps)

	return e
}

func printComponents(w io.Writer, p core.PackageURL) {
	printTitle(w, "Package URL")
	printKeyValue(w, "Type", p.Type)
	printKeyValue(w, "Namespace", p.Namespace)
	printKeyValue(w, "Name", p.Name)
	printKeyValue(w, "Version", p.Version)

	keys := make([]string, 0, len(p.Qualifiers))
	for k := range p.Qualifiers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		printKeyValue(w, "Qualifiers", "")
	}
	for i, k := range keys {
		label := ""
		if i == 0 {
			label = "Qualifiers"
		}
		printKeyValue(w, label, k+"="+p.Qualifiers[k])
	}

	printKeyValue(w, "Subpath", p.Subpath)
}

func printRegistry(w io.Writer, r core.RegistryResult) {
	printHeading(w, "Registry")
	printKeyValue(w, "Registry", r.RegistryName)
	if r.URL != "" {
		printLink(w, "URL", r.URL)
	}
	if r.Message != "" {
		printWarning(w, "%s", r.Message)
	}
}

var linkLabels = []struct{ key, label string }{
	{"registry", "Registry"},
	{"vulnerablecode", "VulnerableCode"},
	{"purldb", "PurlDB"},
	{"depsdev", "deps.dev"},
	{"share", "Share"},
}

func printLinks(w io.Writer, links map[string]string) {
	printHeading(w, "Links")
	for _, l := range linkLabels {
		if u, ok := links[l.key]; ok {
			printLink(w, l.label, u)
		}
	}
}

func printEnrichment(w io.Writer, e *enrichment) {
	printHeading(w, "PurlDB")
	for _, msg := range e.Errors {
		printError(w, "%s", msg)
	}

	if e.License != "" {
		printKeyValue(w, "License", e.License)
	} else {
		printInfo(w, "License information not available")
	}

	printHeading(w, "Available Versions")
	switch {
	case len(e.Versions.Entries) == 0:
		printInfo(w, "No version information available")
	default:
		for _, v := range e.Versions.Entries {
			line := v.Version
			if v.ReleaseDate != "" {
				line += " (" + purldb.FormatDate(v.ReleaseDate) + ")"
			}
			if v.Current {
				fmt.Fprintln(w, StyleCurrent.Render(iconArrow+" "+line))
			} else {
				fmt.Fprintln(w, "  "+line)
			}
		}
		if e.Versions.HasMore {
			printDetail(w, "%d versions in total", e.Versions.Total)
		}
	}

	printHeading(w, "Package Details")
	if purldb.HasMetadata(e.Package) {
		pkg := e.Package
		if pkg.Description != "" {
			printKeyValue(w, "Description", pkg.Description)
		}
		if pkg.HomepageURL != "" {
			printLink(w, "Homepage", pkg.HomepageURL)
		}
		if pkg.RepositoryHomepageURL != "" {
			printLink(w, "Repository", pkg.RepositoryHomepageURL)
		}
		if pkg.ReleaseDate != "" {
			printKeyValue(w, "Release Date", purldb.FormatDate(pkg.ReleaseDate))
		}
		if len(pkg.Keywords) > 0 {
			printKeyValue(w, "Keywords", strings.Join(pkg.Keywords, ", "))
		}
	} else {
		printInfo(w, "Package details not available")
	}

	printHeading(w, "Dependencies")
	if len(e.Dependencies) == 0 {
		printInfo(w, "No dependencies found")
	}
	for _, g := range e.Dependencies {
		fmt.Fprintf(w, "%s %s\n", g.Scope, StyleDim.Render(fmt.Sprintf("(%d)", len(g.Dependencies))))
		for _, d := range g.Dependencies {
			line := "  " + d.PURL
			if d.IsOptional {
				line += " " + StyleDim.Render("optional")
			}
			fmt.Fprintln(w, line)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
