package drivers

import (
	"fmt"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/pkg/emit"
	"github.com/spf13/cobra"
)

const examples = `  # generate code for every driver in the scene
  rnagen drivers --scene scene.yaml

  # only objects and material node trees, wrapped in a function
  rnagen drivers --scene scene.yaml --source Objects --source "Material node trees" --function make_drivers

  # write to a file
  rnagen drivers --scene scene.yaml --output drivers.py`

var Cmd = &cobra.Command{
	Use:     "drivers",
	Short:   "Generate code that recreates the drivers of a scene",
	Example: examples,
	Args:    cobra.NoArgs,
	RunE:    run,
}

var (
	flagScene    string
	flagSources  []string
	flagFunction string
	flagWrap     bool
	flagOutput   string
)

func init() {
	Cmd.Flags().StringVar(&flagScene, commons.FlagNameScene, "", "scene document to read drivers from.")
	Cmd.Flags().StringArrayVar(&flagSources, "source", []string{}, "name of an animatable source to include. Can be specified multiple times. Defaults to all sources.")
	Cmd.Flags().StringVar(&flagFunction, "function", "", "wrap the code in a function of this name.")
	Cmd.Flags().BoolVar(&flagWrap, "wrap", false, "wrap the code in a function with the default name.")
	Cmd.Flags().StringVarP(&flagOutput, commons.FlagNameOutput, "o", "", "output file path. If the file already exists, it will be overwritten.")
}

func run(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	env := commons.Current()

	ns, err := commons.LoadScene(flagScene)
	if err != nil {
		return err
	}

	sources := env.Sources()
	var selected []bool
	if len(flagSources) > 0 {
		selected = make([]bool, len(sources))
		for _, name := range flagSources {
			found := false
			for i, s := range sources {
				if s.Name == name {
					selected[i], found = true, true
				}
			}
			if !found {
				return fmt.Errorf("unknown source %q", name)
			}
		}
	}

	sink, done, err := commons.OutputSink(flagOutput)
	if err != nil {
		return err
	}
	e := emit.NewDriverExporter(ns, emit.WithLogger(env.Log), emit.WithReporter(env.Reporter))
	stats, err := e.Export(sink, sources, selected, env.ScriptOptions(flagFunction, flagWrap))
	if err := done(err); err != nil {
		return err
	}

	if stats.Unresolved > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d driver targets could not be resolved\n", stats.Unresolved)
	}
	return nil
}
