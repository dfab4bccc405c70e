package preset

import (
	"fmt"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/pkg/datapath"
	"github.com/bpytools/rnagen/pkg/literal"
	"github.com/bpytools/rnagen/pkg/preset"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply COLLECTION BASE_TYPE NAME TARGET_PATH",
	Short: "Apply a preset to a scene and show the resulting values",
	Args:  cobra.ExactArgs(4),
	RunE:  runApply,
}

var flagApplyScene string

func init() {
	applyCmd.Flags().StringVar(&flagApplyScene, commons.FlagNameScene, "", "scene document to apply the preset to.")
}

func runApply(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	env := commons.Current()

	ns, err := commons.LoadScene(flagApplyScene)
	if err != nil {
		return err
	}
	lib, _, err := openLibrary(env)
	if err != nil {
		return err
	}
	p, err := lib.Find(args[0], args[1], args[2])
	if err != nil {
		return err
	}

	a := preset.NewApplier(ns, preset.Logger(env.Log), preset.Reporter(env.Reporter))
	report, err := a.Apply(p, args[3])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ser := literal.NewSerializer(ns)
	fmt.Fprintf(out, "applied %s to %s\n", p.Name, report.Root)
	for _, path := range report.Applied {
		lit := "?"
		if v, err := ns.Eval(datapath.Join(report.Root, path)); err == nil {
			if s, ok := ser.ToLiteral(v); ok {
				lit = s
			}
		}
		fmt.Fprintf(out, "  %s %s = %s\n", color.GreenString("ok"), path, lit)
	}
	for _, perr := range report.Errors {
		fmt.Fprintf(out, "  %s %s: %v\n", color.RedString("failed"), perr.Path, perr.Err)
	}

	if !report.OK() {
		return fmt.Errorf("%d of %d properties could not be applied", len(report.Errors), len(p.Properties))
	}
	return nil
}
