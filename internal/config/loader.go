package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// FileError reports a problem decoding a window options file.
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *FileError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DefaultConfigPath returns ~/.config/glacier/window.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "glacier", "window.yaml"), nil
}

// Load reads window options from the standard location. A missing file is
// not an error: it yields nil options, which resolve to Defaults.
func Load() (*Options, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return LoadFile(path)
}

// LoadFile decodes window options from a YAML (.yaml, .yml) or TOML (.toml)
// file. Unknown keys are rejected.
func LoadFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	opts := &Options{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeStrictYAML(data, opts)
	case ".toml":
		err = decodeStrictTOML(data, opts)
	default:
		err = fmt.Errorf("%w %q (want .yaml, .yml or .toml)", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, &FileError{File: path, Err: err}
	}
	return opts, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func decodeStrictTOML(data []byte, out any) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

// Marshal renders options as YAML, omitting absent fields.
func Marshal(opts Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(opts); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
