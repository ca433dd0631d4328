package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s-celles/package-url-viewer/internal/core"
)

func (c *CLI) typesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the supported package types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			mappings := core.Mappings()

			if asJSON {
				return writeJSON(out, mappings)
			}

			for _, m := range mappings {
				var note string
				switch {
				case !m.HasRegistry && m.RequiresQualifier:
					note = "no central registry, qualifier required"
				case !m.HasRegistry:
					note = "no central registry"
				case m.RequiresQualifier:
					note = "qualifier required"
				default:
					note = m.BaseURL
				}
				printKeyValue(out, string(m.Type), fmt.Sprintf("%s %s", m.RegistryName, StyleDim.Render(note)))
			}
			printSuccess(out, "%d package types", len(mappings))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON document")

	return cmd
}
