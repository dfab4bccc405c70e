package commons

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutputSink(t *testing.T) {
	tcs := []struct {
		name      string
		exportErr error
		wantFile  bool
	}{
		{name: "export succeeded", wantFile: true},
		{name: "export failed", exportErr: errors.New("no such tree")},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.py")
			sink, done, err := OutputSink(path)
			require.NoError(t, err)
			sink.WriteLine("import bpy")

			err = done(tc.exportErr)
			if tc.exportErr != nil {
				require.ErrorIs(t, err, tc.exportErr)
			} else {
				require.NoError(t, err)
			}

			got, err := os.ReadFile(path)
			if !tc.wantFile {
				require.ErrorIs(t, err, os.ErrNotExist)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "import bpy\n", string(got))
		})
	}
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig("")
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("functionName: build\nmakeIntoFunction: true\n"), 0o600))
	cfg, err = ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, Config{MakeIntoFunction: true, FunctionName: "build"}, cfg)

	require.NoError(t, os.WriteFile(path, []byte("unknown: 1\n"), 0o600))
	_, err = ReadConfig(path)
	require.Error(t, err)
}
