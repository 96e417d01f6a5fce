package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/tagkit/provider"
	"github.com/randalmurphal/tagkit/tagging"
)

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// File is the on-disk configuration.
type File struct {
	Gateway provider.Config `json:"gateway" yaml:"gateway" toml:"gateway"`
	Tagging tagging.Config  `json:"tagging" yaml:"tagging" toml:"tagging"`
}

// Default returns the built-in configuration.
func Default() File {
	return File{
		Gateway: provider.DefaultConfig(),
		Tagging: tagging.DefaultConfig(),
	}
}

// Validate checks both sections.
func (f *File) Validate() error {
	var errs []error
	if err := f.Gateway.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("gateway: %w", err))
	}
	if err := f.Tagging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tagging: %w", err))
	}
	return errors.Join(errs...)
}

// Load reads path, applies environment overrides and validates the result.
// An empty path yields the defaults with environment overrides.
func Load(path string) (File, error) {
	f := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return File{}, fmt.Errorf("read config: %w", err)
		}
		if err := Decode(data, Format(path), &f); err != nil {
			return File{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	f.Gateway.LoadFromEnv()
	if err := f.Validate(); err != nil {
		return File{}, fmt.Errorf("invalid config: %w", err)
	}
	return f, nil
}

// Format returns "yaml" or "toml" based on the file extension, or "".
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}

// Decode decodes data in the given format on top of the values already in f.
// Unknown keys are rejected.
func Decode(data []byte, format string, f *File) error {
	switch format {
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode yaml: %w", err)
		}
		return nil
	case "toml":
		md, err := toml.Decode(string(data), f)
		if err != nil {
			return fmt.Errorf("decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return fmt.Errorf("decode toml: unknown keys %s", strings.Join(keys, ", "))
		}
		return nil
	default:
		return fmt.Errorf("%w %q: use .yaml, .yml or .toml", ErrUnsupportedFormat, format)
	}
}
