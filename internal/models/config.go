package models

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// DefaultInputFile is the package list read when no file is given
const DefaultInputFile = "tampered_package_names.txt"

// DefaultConfigFile is loaded when present and no --config flag is given
const DefaultConfigFile = ".tamper-check.toml"

// Config holds configuration for a batch run
type Config struct {
	// Input settings
	InputFile string `toml:"input_file"`

	// Behavior settings
	Timeout    time.Duration `toml:"-"` // Per-command timeout, 0 disables it
	RawTimeout string        `toml:"timeout"`
	OSV        bool          `toml:"osv"` // Look up advisories for installed packages
	NoColor    bool          `toml:"no_color"`
	Verbose    bool          `toml:"verbose"`

	Pip PipConfig `toml:"pip"`
	Npm NpmConfig `toml:"npm"`
	Go  GoConfig  `toml:"go"`
}

// PipConfig configures the pip installer
type PipConfig struct {
	Python    string   `toml:"python"`
	ExtraArgs []string `toml:"extra_args"`
}

// NpmConfig configures the npm installer
type NpmConfig struct {
	Command      string   `toml:"command"`
	InstallFlags []string `toml:"install_flags"`
}

// GoConfig configures the Go module installer
type GoConfig struct {
	Command string `toml:"command"`
}

// DefaultNpmInstallFlags keep lifecycle scripts from running and silence audit/fund requests
var DefaultNpmInstallFlags = []string{"--ignore-scripts", "--no-audit", "--no-fund", "--silent"}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		InputFile: DefaultInputFile,
		Timeout:   0,
		Pip: PipConfig{
			Python: "python3",
		},
		Npm: NpmConfig{
			Command:      "npm",
			InstallFlags: append([]string(nil), DefaultNpmInstallFlags...),
		},
		Go: GoConfig{
			Command: "go",
		},
	}
}

// LoadFile overlays the TOML file at path onto c.
// A missing file is not an error when optional is set.
func (c *Config) LoadFile(path string, optional bool) error {
	if _, err := os.Stat(path); err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading config %s", path)
	}

	if _, err := toml.DecodeFile(path, c); err != nil {
		return errors.Wrapf(err, "parsing config %s", path)
	}

	if c.RawTimeout != "" {
		if err := c.SetTimeout(c.RawTimeout); err != nil {
			return errors.Wrapf(err, "parsing config %s", path)
		}
	}
	return nil
}

// LoadEnv overlays TAMPER_CHECK_* environment variables onto c
func (c *Config) LoadEnv() error {
	if v := os.Getenv("TAMPER_CHECK_INPUT"); v != "" {
		c.InputFile = v
	}
	if v := os.Getenv("TAMPER_CHECK_PYTHON"); v != "" {
		c.Pip.Python = v
	}
	if v := os.Getenv("TAMPER_CHECK_TIMEOUT"); v != "" {
		if err := c.SetTimeout(v); err != nil {
			return errors.Wrap(err, "TAMPER_CHECK_TIMEOUT")
		}
	}
	return nil
}

// SetTimeout parses a duration such as "90s" or "10m"
func (c *Config) SetTimeout(raw string) error {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid timeout %q", raw)
	}
	if d < 0 {
		return errors.Errorf("invalid timeout %q: must not be negative", raw)
	}
	c.RawTimeout = raw
	c.Timeout = d
	return nil
}
