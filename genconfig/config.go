package genconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/halvardal/lrforge"
	"github.com/halvardal/lrforge/determinize"
	"github.com/halvardal/lrforge/output"
)

// Config is one generator run's configuration.
type Config struct {
	Style      string `toml:"style"` // "strict" | "permissive" | "generalized"
	Version    [3]int `toml:"version"`
	TraceLevel string `toml:"trace_level"`
}

// Default returns the configuration used when no TOML file is supplied:
// strict determinization, version 1.0.0, Info-level tracing.
func Default() Config {
	return Config{
		Style:      "strict",
		Version:    [3]int{output.CurrentVersion.Major, output.CurrentVersion.Minor, output.CurrentVersion.Patch},
		TraceLevel: "Info",
	}
}

// Load reads and decodes a TOML configuration file at path. A missing
// path is not an error — Default() is returned instead, matching a
// generator run with no explicit config being a normal, supported case.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("genconfig: decoding %s: %w", path, err)
	}
	return cfg, nil
}

// DeterminizeStyle maps the configured style name to a determinize.Style,
// defaulting to DeterministicStrict for an unrecognized or empty name.
func (c Config) DeterminizeStyle() determinize.Style {
	switch c.Style {
	case "permissive":
		return determinize.DeterministicPermissive
	case "generalized":
		return determinize.Generalized
	default:
		return determinize.DeterministicStrict
	}
}

// TableVersion returns the configured version triple as a lrforge.Version.
func (c Config) TableVersion() lrforge.Version {
	return lrforge.Version{Major: c.Version[0], Minor: c.Version[1], Patch: c.Version[2]}
}
