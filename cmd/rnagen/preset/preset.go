package preset

import (
	"fmt"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/pkg/logging"
	"github.com/bpytools/rnagen/pkg/preset"
	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "preset",
	Short: "Create, inspect and apply property presets",
}

var (
	flagSource  string
	flagLibrary string
)

func init() {
	Cmd.PersistentFlags().StringVar(&flagSource, "source", string(preset.Document), "library to use: document or preferences.")
	Cmd.PersistentFlags().StringVar(&flagLibrary, "library", "", "document library file. Defaults to the library set in the config.")

	Cmd.AddCommand(
		createCmd,
		listCmd,
		applyCmd,
		codeCmd,
		removeCmd,
		renameCmd,
	)
}

// libraryPath returns the file backing the selected data source.
func libraryPath(env *commons.Env) (string, error) {
	src, err := preset.ParseDataSource(flagSource)
	if err != nil {
		return "", err
	}
	switch src {
	case preset.Preferences:
		if env.Config.Preferences != "" {
			return env.Config.Preferences, nil
		}
		return preset.DefaultPreferencesPath()
	default:
		if flagLibrary != "" {
			return flagLibrary, nil
		}
		if env.Config.Library != "" {
			return env.Config.Library, nil
		}
		return "", fmt.Errorf("the document library needs --library or a library in the config")
	}
}

// openLibrary loads the selected library. Missing files read as empty.
func openLibrary(env *commons.Env) (*preset.Library, string, error) {
	path, err := libraryPath(env)
	if err != nil {
		return nil, "", err
	}
	lib, err := preset.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return lib, path, nil
}

func saveLibrary(env *commons.Env, path string, lib *preset.Library) error {
	if err := preset.SaveFile(path, lib); err != nil {
		return err
	}
	env.Log.V(logging.Debug).Info("saved preset library", logging.Path, path, logging.DataSource, flagSource, "collections", len(lib.Collections))
	return nil
}
