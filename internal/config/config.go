package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bamsammich/inofd/internal/filter"
)

// Config represents the optional inofd configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Filter   FilterConfig   `toml:"filter"`

	// Unknown lists keys present in the file that inofd does not recognize.
	Unknown []string `toml:"-"`
}

// DefaultsConfig holds persistent flag defaults.
type DefaultsConfig struct {
	Workers        *int  `toml:"workers"`
	SkipHidden     *bool `toml:"skip_hidden"`
	DisableReflink *bool `toml:"disable_reflink"`
	ForceHardlink  *bool `toml:"force_hardlink"`
	Verify         *bool `toml:"verify"`
}

// FilterConfig holds filter rules applied after any given on the command line.
type FilterConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// Apply appends the configured rules to chain, includes first so that they
// carve exceptions out of the excludes. Either every rule is added or, on
// the first invalid pattern, none is.
func (f FilterConfig) Apply(chain *filter.Chain) error {
	staged := filter.NewChain()
	for _, p := range f.Include {
		if err := staged.AddInclude(p); err != nil {
			return fmt.Errorf("config include %q: %w", p, err)
		}
	}
	for _, p := range f.Exclude {
		if err := staged.AddExclude(p); err != nil {
			return fmt.Errorf("config exclude %q: %w", p, err)
		}
	}
	chain.Append(staged)
	return nil
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "inofd", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	return cfg, nil
}
