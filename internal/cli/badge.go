package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s-celles/package-url-viewer/internal/core"
)

func (c *CLI) badgeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "badge <purl>",
		Short: "Print Markdown badges linking to the PURL viewer",
		Long: `Print a Markdown badge for the given PURL. When the PURL carries a version,
a badge pinned to that version is printed first, followed by one for the
latest version.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			raw := strings.TrimSpace(args[0])

			if _, err := core.Parse(raw); err != nil {
				return err
			}

			badges := c.badges().Badges(raw)
			loggerFromContext(cmd.Context()).Debug("generated badges", "purl", raw, "count", len(badges))

			if asJSON {
				return writeJSON(out, badges)
			}

			for i, b := range badges {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printTitle(out, b.Label)
				printKeyValue(out, "PURL", b.PURLDisplay)
				printLink(out, "Link", b.LinkURL)
				fmt.Fprintln(out, b.Markdown)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON document")

	return cmd
}
