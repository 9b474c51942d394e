// Package config provides configuration loading and management for voxelkit.
// It handles loading configuration from YAML files and provides default
// values for the loader, windowing and GPU format mapping.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"voxelkit/pkg/gpu"
	"voxelkit/pkg/volume"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Loading parameters applied when a volume is read.
	Loading struct {
		// ConvertToFloat forces conversion of every loaded buffer to
		// Float32 before further processing.
		ConvertToFloat bool `yaml:"convertToFloat"`

		// Normalize rescales voxel values into [0,1] after loading.
		Normalize bool `yaml:"normalize"`

		// MinValue and MaxValue are the assumed physical value range for
		// raw files that carry no range metadata.
		MinValue float32 `yaml:"minValue"`
		MaxValue float32 `yaml:"maxValue"`
	} `yaml:"loading"`

	// Windowing is the default display window applied to loaded volumes.
	Windowing struct {
		Center     float32 `yaml:"center"`
		Width      float32 `yaml:"width"`
		LowCutoff  bool    `yaml:"lowCutoff"`
		HighCutoff bool    `yaml:"highCutoff"`
	} `yaml:"windowing"`

	// GPU holds rendering-backend mapping overrides. Keys are voxel format
	// names ("Uint8", "Float32", ...), values are backend pixel format tags.
	GPU struct {
		FormatOverrides map[string]string `yaml:"formatOverrides"`
	} `yaml:"gpu"`

	// Output parameters.
	Output struct {
		// SlicesDir is where extracted slice sequences are written.
		SlicesDir string `yaml:"slicesDir"`

		// Verbose controls the level of logging output.
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values. The value-range
// and windowing defaults are the imaging-modality constants from pkg/volume,
// not repeated literals.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Loading.ConvertToFloat = true
	cfg.Loading.Normalize = true
	cfg.Loading.MinValue = volume.DefaultMinValue
	cfg.Loading.MaxValue = volume.DefaultMaxValue

	cfg.Windowing.Center = volume.DefaultWindowCenter
	cfg.Windowing.Width = volume.DefaultWindowWidth
	cfg.Windowing.LowCutoff = true
	cfg.Windowing.HighCutoff = true

	cfg.GPU.FormatOverrides = map[string]string{}

	cfg.Output.SlicesDir = "slices"
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// WindowingParameters converts the configured window into the volume value type.
func (c *Config) WindowingParameters() volume.Windowing {
	return volume.Windowing{
		Center:     c.Windowing.Center,
		Width:      c.Windowing.Width,
		LowCutoff:  c.Windowing.LowCutoff,
		HighCutoff: c.Windowing.HighCutoff,
	}
}

// FormatTable builds the GPU pixel-format table: the stock mapping with the
// configured per-format overrides applied. Unknown format names are an
// error rather than a skipped entry.
func (c *Config) FormatTable() (gpu.FormatTable, error) {
	table := gpu.DefaultTable()
	for name, pf := range c.GPU.FormatOverrides {
		f, err := volume.ParseFormat(name)
		if err != nil {
			return nil, fmt.Errorf("gpu format override %q: %w", name, err)
		}
		table[f] = gpu.PixelFormat(pf)
	}
	return table, nil
}
