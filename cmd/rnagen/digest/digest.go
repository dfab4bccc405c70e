package digest

import (
	"fmt"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/pkg/digest"
	"github.com/bpytools/rnagen/pkg/literal"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

const examples = `  # show the typed roots above a property
  rnagen digest --scene scene.yaml 'bpy.data.objects["Cube"].modifiers["Bevel"].width'

  # list every typed ancestor as YAML
  rnagen digest --scene scene.yaml --all-types --output yaml 'bpy.data.objects["Cube"].modifiers["Bevel"].width'`

var Cmd = &cobra.Command{
	Use:     "digest PATH",
	Short:   "Find the typed roots a data path passes through and the property relative to each",
	Example: examples,
	Args:    cobra.ExactArgs(1),
	RunE:    run,
}

var (
	flagScene    string
	flagAllTypes bool
	flagOutput   string
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
)

func init() {
	Cmd.Flags().StringVar(&flagScene, commons.FlagNameScene, "", "scene document to evaluate against.")
	Cmd.Flags().BoolVar(&flagAllTypes, "all-types", false, "keep every typed ancestor instead of only the current anchor.")
	Cmd.Flags().StringVarP(&flagOutput, commons.FlagNameOutput, "o", outputTable, fmt.Sprintf("output format. One of: %s|%s.", outputTable, outputYAML))
}

// result is the YAML form of a digest.
type result struct {
	Chain    digest.Chain `json:"chain"`
	LeafPath string       `json:"leafPath,omitempty"`
	Leaf     string       `json:"leaf,omitempty"`
}

func run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	env := commons.Current()

	ns, err := commons.LoadScene(flagScene)
	if err != nil {
		return err
	}
	d := digest.New(ns, digest.Logger(env.Log), digest.Reporter(env.Reporter))
	res, err := d.Digest(args[0], flagAllTypes)
	if err != nil {
		return err
	}

	var leaf string
	if res.FoundLeaf {
		leaf, _ = literal.NewSerializer(ns).ToLiteral(res.Leaf)
	}

	out := cmd.OutOrStdout()
	switch flagOutput {
	case outputYAML:
		b, err := yaml.Marshal(result{Chain: res.Chain, LeafPath: res.LeafPath, Leaf: leaf})
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	case outputTable:
		rows := make([][]any, 0, len(res.Chain))
		for _, r := range res.Chain {
			rows = append(rows, []any{r.TypeName, r.Path, r.Relative})
		}
		if err := commons.RenderTable(out, []any{"Type", "Root", "Relative"}, rows); err != nil {
			return err
		}
		if res.FoundLeaf {
			fmt.Fprintf(out, "leaf %s = %s\n", res.LeafPath, leaf)
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", flagOutput)
}
