package preset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

const (
	configDirName       = "rnagen"
	preferencesFileName = "presets.yaml"
)

// Save writes lib as YAML. The document holds plain data only.
func Save(w io.Writer, lib *Library) error {
	out, err := yaml.Marshal(lib)
	if err != nil {
		return fmt.Errorf("encoding preset library: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// Load reads a library written by Save. Unknown fields and invalid records
// are rejected; nothing in the document is ever evaluated.
func Load(r io.Reader) (*Library, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading preset library: %w", err)
	}
	lib := NewLibrary()
	if err := yaml.UnmarshalStrict(data, lib); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLibrary, err)
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

// LoadFile is Load from a file. A missing file yields an empty library.
func LoadFile(path string) (*Library, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLibrary(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// SaveFile is Save to a file, creating its directory if needed.
func SaveFile(path string, lib *Library) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, lib); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DefaultPreferencesPath is where preference presets are stored.
func DefaultPreferencesPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configDirName, preferencesFileName), nil
}
