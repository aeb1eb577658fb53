// internal/config/config.go
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"grnafinder/internal/casoffinder"
	"grnafinder/internal/classify"
)

// Defaults.
const (
	DefaultGuideLength = 20
	DefaultMismatches  = 3
	DefaultBulge       = 0
	DefaultStringency  = string(classify.High)
	DefaultDevice      = "C"
	DefaultFormat      = "text"
)

// Config is the process-wide run configuration, read once at startup and
// passed explicitly to each stage.
type Config struct {
	Guide  GuideConfig  `mapstructure:"guide" yaml:"guide"`
	Search SearchConfig `mapstructure:"search" yaml:"search"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// GuideConfig shapes candidate generation and filtering.
type GuideConfig struct {
	Length     int    `mapstructure:"length" yaml:"length"`
	Stringency string `mapstructure:"stringency" yaml:"stringency"`
}

// SearchConfig parameterizes the external off-target search.
type SearchConfig struct {
	Genome      string `mapstructure:"genome" yaml:"genome"`
	Mismatches  int    `mapstructure:"mismatches" yaml:"mismatches"`
	Bulge       int    `mapstructure:"bulge" yaml:"bulge"`
	CasOffinder string `mapstructure:"cas_offinder" yaml:"cas_offinder"`
	Device      string `mapstructure:"device" yaml:"device"`
	KeepTemp    bool   `mapstructure:"keep_temp" yaml:"keep_temp"`
	Threads     int    `mapstructure:"threads" yaml:"threads"`
}

// OutputConfig shapes the report.
type OutputConfig struct {
	Path    string `mapstructure:"path" yaml:"path"`
	Format  string `mapstructure:"format" yaml:"format"`
	Header  bool   `mapstructure:"header" yaml:"header"`
	Verbose bool   `mapstructure:"verbose" yaml:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Guide: GuideConfig{
			Length:     DefaultGuideLength,
			Stringency: DefaultStringency,
		},
		Search: SearchConfig{
			Mismatches:  DefaultMismatches,
			Bulge:       DefaultBulge,
			CasOffinder: casoffinder.DefaultPath,
			Device:      DefaultDevice,
		},
		Output: OutputConfig{
			Format: DefaultFormat,
			Header: true,
		},
	}
}

// Load layers a viper instance (config file + GRNAFINDER_* env) over the
// defaults. Flags are applied by the CLI afterwards, giving the hierarchy
// flags > env > file > defaults.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if v != nil {
		if err := v.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
	}
	return cfg, nil
}

// Validate checks every run parameter before any work starts.
func (c Config) Validate() error {
	if c.Guide.Length < 1 {
		return errors.New("guide length must be >= 1")
	}
	if _, err := classify.ParseLevel(c.Guide.Stringency); err != nil {
		return err
	}
	if c.Search.Genome == "" {
		return errors.New("reference genome path is required")
	}
	if c.Search.Mismatches < 0 {
		return errors.New("mismatch tolerance must be >= 0")
	}
	if c.Search.Bulge < 0 {
		return errors.New("bulge size must be >= 0")
	}
	if c.Search.Threads < 0 {
		return errors.New("threads must be >= 0")
	}
	switch c.Search.Device {
	case "C", "G", "A":
	default:
		return fmt.Errorf("invalid device %q (C | G | A)", c.Search.Device)
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("invalid output format %q (text | json)", c.Output.Format)
	}
	return nil
}

// Stringency returns the parsed stringency level. Call Validate first.
func (c Config) Stringency() classify.Level {
	l, _ := classify.ParseLevel(c.Guide.Stringency)
	return l
}
