package preset

import (
	"errors"
	"fmt"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/pkg/digest"
	"github.com/bpytools/rnagen/pkg/logging"
	"github.com/bpytools/rnagen/pkg/preset"
	"github.com/spf13/cobra"
)

const createExamples = `  # record the location and scale of the cube as an Object preset
  rnagen preset create --scene scene.yaml --library presets.yaml --collection Transforms --name Home \
    'bpy.data.objects["Cube"].location' 'bpy.data.objects["Cube"].scale'

  # record a node input against the material instead of the node tree
  rnagen preset create --scene scene.yaml --library presets.yaml --collection Shading --name Rough --base-type Material \
    'bpy.data.materials["Red"].node_tree.nodes["Principled BSDF"].inputs[2].default_value'`

var createCmd = &cobra.Command{
	Use:     "create PATH...",
	Short:   "Create a preset from the values at the given paths",
	Example: createExamples,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runCreate,
}

var (
	flagCreateScene string
	flagCollection  string
	flagName        string
	flagBaseType    string
)

func init() {
	createCmd.Flags().StringVar(&flagCreateScene, commons.FlagNameScene, "", "scene document to read values from.")
	createCmd.Flags().StringVar(&flagCollection, "collection", "", "collection to add the preset to. Created if it does not exist.")
	createCmd.Flags().StringVar(&flagName, "name", "", "preset name.")
	createCmd.Flags().StringVar(&flagBaseType, "base-type", "", "type the values are recorded against. Defaults to the innermost typed root of each path, creating one preset per type.")
}

func runCreate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	env := commons.Current()

	ns, err := commons.LoadScene(flagCreateScene)
	if err != nil {
		return err
	}
	lib, path, err := openLibrary(env)
	if err != nil {
		return err
	}

	clip := preset.NewClipboard(ns, digest.New(ns, digest.Logger(env.Log), digest.Reporter(env.Reporter)))
	for _, p := range args {
		if _, err := clip.Paste(p); err != nil {
			return err
		}
	}

	baseTypes := clip.BaseTypes()
	if flagBaseType != "" {
		for i := 0; i < clip.Len(); i++ {
			err := clip.ChooseBase(i, flagBaseType)
			if errors.Is(err, preset.ErrUnknownBaseType) {
				env.Log.Info("skipping path without the base type", logging.FullPath, clip.Entries()[i].FullPath, logging.BaseType, flagBaseType)
				continue
			}
			if err != nil {
				return err
			}
		}
		baseTypes = []string{flagBaseType}
	}

	for _, bt := range baseTypes {
		p, err := lib.CreatePreset(clip, flagCollection, flagName, bt)
		if err != nil {
			return err
		}
		env.Log.Info("created preset", logging.Collection, flagCollection, logging.BaseType, bt, logging.Preset, p.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "created %s/%s/%s with %d properties\n", flagCollection, bt, p.Name, len(p.Properties))
	}
	return saveLibrary(env, path, lib)
}
