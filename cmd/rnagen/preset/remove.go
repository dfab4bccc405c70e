package preset

import (
	"fmt"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/pkg/preset"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove COLLECTION [BASE_TYPE NAME]",
	Short: "Remove a preset, or a whole collection",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("accepts a collection, or a collection, base type and preset name; received %d args", len(args))
		}
		return nil
	},
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	env := commons.Current()

	lib, path, err := openLibrary(env)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		err = lib.RemoveCollection(args[0])
	} else {
		err = lib.RemovePreset(args[0], args[1], args[2])
	}
	if err != nil {
		return err
	}
	return saveLibrary(env, path, lib)
}

var renameCmd = &cobra.Command{
	Use:   "rename COLLECTION [BASE_TYPE NAME] NEW_NAME",
	Short: "Rename a preset, or a whole collection",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 && len(args) != 4 {
			return fmt.Errorf("accepts a collection and its new name, or a collection, base type, preset name and new name; received %d args", len(args))
		}
		return nil
	},
	RunE: runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	env := commons.Current()

	lib, path, err := openLibrary(env)
	if err != nil {
		return err
	}
	if len(args) == 2 {
		if err := lib.RenameCollection(args[0], args[1]); err != nil {
			return err
		}
		return saveLibrary(env, path, lib)
	}

	p, err := lib.Find(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	c, _ := lib.Collection(args[0])
	if _, taken := c.Preset(args[1], args[3]); taken && args[3] != p.Name {
		return fmt.Errorf("%w: %s/%s/%s", preset.ErrDuplicatePreset, args[0], args[1], args[3])
	}
	if err := p.Rename(args[3]); err != nil {
		return err
	}
	return saveLibrary(env, path, lib)
}
