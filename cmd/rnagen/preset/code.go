package preset

import (
	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/pkg/emit"
	"github.com/spf13/cobra"
)

var codeCmd = &cobra.Command{
	Use:   "code COLLECTION BASE_TYPE NAME TARGET_PATH",
	Short: "Generate code that applies a preset to the target",
	Args:  cobra.ExactArgs(4),
	RunE:  runCode,
}

var (
	flagCodeFunction string
	flagCodeWrap     bool
	flagCodeOutput   string
)

func init() {
	codeCmd.Flags().StringVar(&flagCodeFunction, "function", "", "wrap the code in a function of this name.")
	codeCmd.Flags().BoolVar(&flagCodeWrap, "wrap", false, "wrap the code in a function with the default name.")
	codeCmd.Flags().StringVarP(&flagCodeOutput, commons.FlagNameOutput, "o", "", "output file path. If the file already exists, it will be overwritten.")
}

func runCode(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	env := commons.Current()

	lib, _, err := openLibrary(env)
	if err != nil {
		return err
	}
	p, err := lib.Find(args[0], args[1], args[2])
	if err != nil {
		return err
	}

	sink, done, err := commons.OutputSink(flagCodeOutput)
	if err != nil {
		return err
	}
	e := emit.NewPresetExporter(emit.WithLogger(env.Log), emit.WithReporter(env.Reporter))
	return done(e.Export(sink, p, args[3], env.ScriptOptions(flagCodeFunction, flagCodeWrap)))
}
