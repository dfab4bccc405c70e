package reverse

import (
	"fmt"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/pkg/host"
	"github.com/bpytools/rnagen/pkg/reverse"
	"github.com/spf13/cobra"
)

const examples = `  # list every item reachable from the animatable sources
  rnagen reverse --scene scene.yaml

  # list the configured sources only
  rnagen reverse --sources`

var Cmd = &cobra.Command{
	Use:     "reverse",
	Short:   "Show the paths cross references resolve to",
	Example: examples,
	Args:    cobra.NoArgs,
	RunE:    run,
}

var (
	flagScene   string
	flagSources bool
)

func init() {
	Cmd.Flags().StringVar(&flagScene, commons.FlagNameScene, "", "scene document to search.")
	Cmd.Flags().BoolVar(&flagSources, "sources", false, "list the animatable sources instead of the paths they reach.")
}

func run(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	env := commons.Current()
	sources := env.Sources()
	out := cmd.OutOrStdout()

	if flagSources {
		rows := make([][]any, 0, len(sources))
		for _, s := range sources {
			rows = append(rows, []any{s.Name, s.String()})
		}
		return commons.RenderTable(out, []any{"Source", "Path"}, rows)
	}

	ns, err := commons.LoadScene(flagScene)
	if err != nil {
		return err
	}
	m, err := reverse.Build(ns, sources)
	if err != nil {
		return err
	}

	entries := m.Entries()
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{e.Path, describe(e.Value)})
	}
	if err := commons.RenderTable(out, []any{"Path", "Value"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d items\n", m.Len())
	return nil
}

func describe(v any) string {
	if s, ok := v.(*host.Struct); ok {
		return s.String()
	}
	return host.Classify(v).String()
}
