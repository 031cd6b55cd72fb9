package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wikigraph/pkg/graph"
)

// componentsCommand creates the components command.
func (c *CLI) componentsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "components [graph.json]",
		Short: "Print the connected components of a graph",
		Long: `Print the connected components of a graph.

Edge direction is ignored. Components are listed largest first, one per line,
or as a JSON array of ID arrays with --json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			g, err := graph.ReadFile(args[0], cfg.LinkMapOptions())
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			groups := sortedGroups(graph.Components(g))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), groups)
			}
			printComponents(cmd.OutOrStdout(), groups)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

// sortedGroups returns the component member lists, largest first. Ties
// keep partition order.
func sortedGroups(p *graph.Partition) [][]string {
	groups := p.Groups()
	slices.SortStableFunc(groups, func(a, b []string) int { return len(b) - len(a) })
	return groups
}

func printComponents(w io.Writer, groups [][]string) {
	for i, members := range groups {
		fmt.Fprintf(w, "%s %s %s\n",
			StyleNumber.Render(fmt.Sprintf("%3d", i+1)),
			StyleDim.Render(fmt.Sprintf("(%d)", len(members))),
			StyleValue.Render(strings.Join(members, " ")))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
