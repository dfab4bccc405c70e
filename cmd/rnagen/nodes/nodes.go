package nodes

import (
	"fmt"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/pkg/emit"
	"github.com/spf13/cobra"
)

const examples = `  # generate code for a material's node tree
  rnagen nodes --scene scene.yaml 'bpy.data.materials["Red"].node_tree'

  # include attributes that still have their default value
  rnagen nodes --scene scene.yaml --write-defaults 'bpy.data.node_groups["NodeGroup"]'`

var Cmd = &cobra.Command{
	Use:     "nodes TREE_PATH",
	Short:   "Generate code that rebuilds a node tree",
	Example: examples,
	Args:    cobra.ExactArgs(1),
	RunE:    run,
}

var (
	flagScene          string
	flagWriteDefaults  bool
	flagLinkedDefaults bool
	flagClear          bool
	flagFunction       string
	flagWrap           bool
	flagOutput         string
)

func init() {
	Cmd.Flags().StringVar(&flagScene, commons.FlagNameScene, "", "scene document to read the tree from.")
	Cmd.Flags().BoolVar(&flagWriteDefaults, "write-defaults", false, "write attributes even when they equal the default of a new node.")
	Cmd.Flags().BoolVar(&flagLinkedDefaults, "linked-defaults", false, "write default values of inputs that are fed by a link.")
	Cmd.Flags().BoolVar(&flagClear, "clear", false, "remove the existing nodes of the tree first.")
	Cmd.Flags().StringVar(&flagFunction, "function", "", "wrap the code in a function of this name.")
	Cmd.Flags().BoolVar(&flagWrap, "wrap", false, "wrap the code in a function with the default name.")
	Cmd.Flags().StringVarP(&flagOutput, commons.FlagNameOutput, "o", "", "output file path. If the file already exists, it will be overwritten.")
}

func run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	env := commons.Current()

	ns, err := commons.LoadScene(flagScene)
	if err != nil {
		return err
	}

	sink, done, err := commons.OutputSink(flagOutput)
	if err != nil {
		return err
	}
	e := emit.NewNodeTreeExporter(ns, emit.WithLogger(env.Log), emit.WithReporter(env.Reporter))
	stats, err := e.Export(sink, args[0], emit.NodeOptions{
		Options:        env.ScriptOptions(flagFunction, flagWrap),
		WriteDefaults:  flagWriteDefaults,
		LinkedDefaults: flagLinkedDefaults,
		ClearTree:      flagClear,
	})
	if err := done(err); err != nil {
		return err
	}

	if stats.Cycles > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d links form a cycle\n", stats.Cycles)
	}
	if stats.Unresolved > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d parents or links point outside the tree\n", stats.Unresolved)
	}
	return nil
}
