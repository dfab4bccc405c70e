package lex

import (
	"fmt"
	"strconv"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/pkg/datapath"
	"github.com/bpytools/rnagen/pkg/datapath/token"
	"github.com/spf13/cobra"
)

const examples = `  # list the tokens of a path
  rnagen lex 'bpy.data.objects["Cube"].location'

  # print the path one level up
  rnagen lex --parent 'bpy.data.objects["Cube"].location'`

var Cmd = &cobra.Command{
	Use:     "lex PATH",
	Short:   "Split a data path into attribute and index tokens",
	Example: examples,
	Args:    cobra.ExactArgs(1),
	RunE:    run,
}

var flagParent bool

func init() {
	Cmd.Flags().BoolVar(&flagParent, "parent", false, "print the path with its last token removed, and the removed token.")
}

func run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	text := args[0]
	out := cmd.OutOrStdout()

	if flagParent {
		prefix, last, ok := datapath.RemoveLastAttribute(text)
		if !ok {
			return fmt.Errorf("%q has no parent", text)
		}
		fmt.Fprintln(out, prefix)
		fmt.Fprintln(out, last)
		return nil
	}

	spans, err := token.Lex(text)
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(spans))
	for _, s := range spans {
		rows = append(rows, []any{s.Kind.String(), strconv.Itoa(s.Start), strconv.Itoa(s.End), s.Text(text)})
	}
	return commons.RenderTable(out, []any{"Kind", "Start", "End", "Text"}, rows)
}
