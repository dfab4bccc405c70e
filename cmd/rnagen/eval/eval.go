package eval

import (
	"fmt"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/pkg/host"
	"github.com/bpytools/rnagen/pkg/literal"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

const examples = `  # print a value as a source literal
  rnagen eval --scene scene.yaml 'bpy.data.objects["Cube"].location'

  # dump the raw value, following references two levels deep
  rnagen eval --scene scene.yaml --dump --depth 2 'bpy.data.objects["Cube"]'`

var Cmd = &cobra.Command{
	Use:     "eval PATH",
	Short:   "Evaluate a data path against a scene",
	Example: examples,
	Args:    cobra.ExactArgs(1),
	RunE:    run,
}

var (
	flagScene string
	flagDump  bool
	flagDepth int
)

func init() {
	Cmd.Flags().StringVar(&flagScene, commons.FlagNameScene, "", "scene document to evaluate against.")
	Cmd.Flags().BoolVar(&flagDump, "dump", false, "dump the Go value instead of printing its literal.")
	Cmd.Flags().IntVar(&flagDepth, "depth", 3, "maximum nesting depth for --dump.")
}

func run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	env := commons.Current()

	ns, err := commons.LoadScene(flagScene)
	if err != nil {
		return err
	}
	v, err := ns.Eval(args[0])
	if err != nil {
		env.Log.Error(err, "evaluation failed")
		return err
	}

	out := cmd.OutOrStdout()
	if flagDump {
		cfg := spew.ConfigState{Indent: "  ", MaxDepth: flagDepth, DisableMethods: true, DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(out, v)
		return nil
	}

	if lit, ok := literal.NewSerializer(ns).ToLiteral(v); ok {
		fmt.Fprintln(out, lit)
		return nil
	}
	fmt.Fprintf(out, "%s (no literal form)\n", describe(v))
	return nil
}

func describe(v any) string {
	switch x := v.(type) {
	case *host.Struct:
		return x.String()
	case *host.Collection:
		return fmt.Sprintf("<collection of %d %s>", x.Len(), x.TypeName)
	}
	return host.Classify(v).String()
}
