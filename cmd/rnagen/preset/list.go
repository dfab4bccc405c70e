package preset

import (
	"strings"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the presets of a library",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var flagListProperties bool

func init() {
	listCmd.Flags().BoolVar(&flagListProperties, "properties", false, "list every property and its value.")
}

func runList(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	env := commons.Current()

	lib, _, err := openLibrary(env)
	if err != nil {
		return err
	}

	var rows [][]any
	for _, c := range lib.Collections {
		for _, bt := range c.BaseTypes() {
			for _, p := range c.Presets[bt] {
				if !flagListProperties {
					paths := make([]string, len(p.Properties))
					for i, prop := range p.Properties {
						paths[i] = prop.Path
					}
					rows = append(rows, []any{c.Name, bt, p.Name, strings.Join(paths, ", ")})
					continue
				}
				for _, prop := range p.Properties {
					rows = append(rows, []any{c.Name, bt, p.Name, prop.Path + " = " + prop.Value.Literal()})
				}
			}
		}
	}
	return commons.RenderTable(cmd.OutOrStdout(), []any{"Collection", "Base type", "Preset", "Properties"}, rows)
}
