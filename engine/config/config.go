// Package config loads the settings shared by the frame assembler and abigen from a
// YAML or TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/light"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")

	// ErrInvalidConfig is returned by Validate for out-of-range settings.
	ErrInvalidConfig = errors.New("config: invalid")
)

// Config holds every tunable of the ABI runtime.
type Config struct {
	// Revision is the pipeline revision number.
	Revision int `yaml:"revision" toml:"revision"`

	// LightCapacity is the fixed number of slots in the light array.
	LightCapacity int `yaml:"light_capacity" toml:"light_capacity"`

	// Tiling is the screen-space light culling tile edge in pixels.
	Tiling uint32 `yaml:"tiling" toml:"tiling"`

	// FramesInFlight is the number of frames the ring hands out before one must retire.
	FramesInFlight int `yaml:"frames_in_flight" toml:"frames_in_flight"`

	// Workers is the size of the per-draw worker pool. 0 assembles draws serially.
	Workers int `yaml:"workers" toml:"workers"`

	// Overflow is the light overflow policy, "drop" or "reject".
	Overflow string `yaml:"overflow" toml:"overflow"`

	// Profiling enables the frame profiler.
	Profiling bool `yaml:"profiling" toml:"profiling"`

	// Output is the path abigen writes the WGSL header to.
	Output string `yaml:"output" toml:"output"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Revision:       int(binding.LatestRevision),
		LightCapacity:  16,
		Tiling:         light.DefaultTiling,
		FramesInFlight: 2,
		Workers:        4,
		Overflow:       light.OverflowDrop.String(),
		Output:         "oxy_abi.wgsl",
	}
}

// Validate checks every setting. All violations are joined.
//
// Returns:
//   - error: nil if the configuration is usable
func (c Config) Validate() error {
	var errs []error
	if _, err := binding.TableFor(binding.Revision(c.Revision)); err != nil {
		errs = append(errs, fmt.Errorf("%w: revision: %w", ErrInvalidConfig, err))
	}
	if c.LightCapacity < 1 {
		errs = append(errs, fmt.Errorf("%w: light_capacity must be at least 1, got %d", ErrInvalidConfig, c.LightCapacity))
	}
	if c.Tiling < 1 {
		errs = append(errs, fmt.Errorf("%w: tiling must be at least 1", ErrInvalidConfig))
	}
	if c.FramesInFlight < 1 {
		errs = append(errs, fmt.Errorf("%w: frames_in_flight must be at least 1, got %d", ErrInvalidConfig, c.FramesInFlight))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers))
	}
	if _, err := light.ParseOverflowPolicy(c.Overflow); err != nil {
		errs = append(errs, fmt.Errorf("%w: overflow: %w", ErrInvalidConfig, err))
	}
	return errors.Join(errs...)
}

// BindingRevision returns Revision as a binding.Revision.
func (c Config) BindingRevision() binding.Revision {
	return binding.Revision(c.Revision)
}

// OverflowPolicy returns the parsed overflow policy, falling back to light.OverflowDrop.
func (c Config) OverflowPolicy() light.OverflowPolicy {
	p, err := light.ParseOverflowPolicy(c.Overflow)
	if err != nil {
		return light.OverflowDrop
	}
	return p
}

// Load reads a configuration file. The format follows the extension: .yaml and .yml
// are YAML, .toml is TOML. Keys missing from the file keep their Default values and
// unknown keys are rejected.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the loaded and validated configuration
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to read %q: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes configuration data in the format named by ext (".yaml", ".yml" or ".toml").
func Parse(data []byte, ext string) (Config, error) {
	c := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config: yaml: %w", err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return Config{}, fmt.Errorf("config: toml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Marshal encodes a configuration in the format named by ext.
func Marshal(c Config, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Marshal(c)
	case ".toml":
		return toml.Marshal(c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Save writes a configuration to path in the format its extension names.
func Save(c Config, path string) error {
	data, err := Marshal(c, filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %q: %w", path, err)
	}
	return nil
}
