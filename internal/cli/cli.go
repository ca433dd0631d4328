// Package cli implements the purlview command-line interface.
//
// Commands:
//   - inspect: parse a PURL, resolve its registry page and print related links
//   - badge: print Markdown badges linking to the PURL viewer
//   - types: list the supported package types
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/s-celles/package-url-viewer/badge"
	"github.com/s-celles/package-url-viewer/client"
	"github.com/s-celles/package-url-viewer/fetch"
	"github.com/s-celles/package-url-viewer/purldb"
)

const appName = "purlview"

// Environment variables read by ConfigFromEnv.
const (
	EnvViewerURL   = "PURLVIEW_VIEWER_URL"
	EnvPurlDBURL   = "PURLVIEW_PURLDB_URL"
	EnvPurlDBToken = "PURLVIEW_PURLDB_TOKEN"
)

// Config holds the endpoints the CLI talks to.
type Config struct {
	ViewerURL   string
	PurlDBURL   string
	PurlDBToken string
}

// ConfigFromEnv builds a Config from the environment, falling back to the
// public viewer and PurlDB instances.
func ConfigFromEnv() Config {
	cfg := Config{
		ViewerURL: badge.DefaultViewerURL,
		PurlDBURL: purldb.APIURL,
	}
	if v := os.Getenv(EnvViewerURL); v != "" {
		cfg.ViewerURL = v
	}
	if v := os.Getenv(EnvPurlDBURL); v != "" {
		cfg.PurlDBURL = v
	}
	cfg.PurlDBToken = os.Getenv(EnvPurlDBToken)
	return cfg
}

// CLI holds shared state for all commands.
type CLI struct {
	Config Config
	logOut io.Writer
}

// New creates a CLI whose logs go to logOut.
func New(cfg Config, logOut io.Writer) *CLI {
	return &CLI{Config: cfg, logOut: logOut}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           appName,
		Short:         "purlview inspects Package URLs",
		Long:          `purlview parses Package URLs (PURLs), links them to their package registry, and looks them up in PurlDB.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(c.logOut, level)))
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.Config.ViewerURL, "viewer-url", c.Config.ViewerURL, "PURL viewer base URL used for share links and badges (env "+EnvViewerURL+")")
	flags.StringVar(&c.Config.PurlDBURL, "purldb-url", c.Config.PurlDBURL, "PurlDB packages API endpoint (env "+EnvPurlDBURL+")")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.badgeCommand())
	root.AddCommand(c.typesCommand())

	return root
}

func (c *CLI) links() client.URLBuilder {
	return client.NewLinks(c.Config.ViewerURL, c.Config.PurlDBURL)
}

func (c *CLI) badges() *badge.Generator {
	return badge.NewGenerator(badge.WithViewerURL(c.Config.ViewerURL))
}

// newPurlDB builds a PurlDB client and returns its breaker-wrapped transport
// so callers can report breaker state.
func (c *CLI) newPurlDB(logger *log.Logger) (*purldb.Client, *fetch.CircuitBreakerFetcher) {
	var opts []fetch.Option
	if token := c.Config.PurlDBToken; token != "" {
		host := hostOf(c.Config.PurlDBURL)
		opts = append(opts, fetch.WithAuthFunc(func(u string) (string, string) {
			if hostOf(u) != host {
				return "", ""
			}
			return "Authorization", "Token " + token
		}))
	}

	transport := fetch.NewCircuitBreakerFetcher(fetch.NewFetcher(opts...))
	db := purldb.NewClient(
		purldb.WithBaseURL(c.Config.PurlDBURL),
		purldb.WithFetcher(transport),
		purldb.WithLogger(logger),
	)
	return db, transport
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// Execute runs the purlview CLI configured from the environment.
func Execute(ctx context.Context) error {
	return New(ConfigFromEnv(), os.Stderr).RootCommand().ExecuteContext(ctx)
}
