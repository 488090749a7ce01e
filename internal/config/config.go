// Package config defines the arrayify.yaml configuration file: per-project
// defaults for conversions plus logging setup. Everything in the file is
// optional, and command-line flags override whatever it sets.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/u-blox/arrayify/pkg/carray"
)

// DefaultFile is the configuration file looked up in the working directory
// when --config is not given.
const DefaultFile = "arrayify.yaml"

// Config represents the top-level configuration structure parsed from
// arrayify.yaml.
type Config struct {
	// Defaults contains fallback values for conversion parameters not
	// given on the command line.
	Defaults DefaultsConfig `yaml:"defaults"`
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultsConfig contains fallback conversion parameters.
type DefaultsConfig struct {
	// LineLength bounds output lines, in characters and including the
	// trailing newline. Zero means 80.
	LineLength int `yaml:"line_length"`
	// Extension is the extension given to derived output file names,
	// without the leading dot. Empty means "array".
	Extension string `yaml:"extension"`
	// Bare suppresses the header and trailer comments.
	Bare bool `yaml:"bare"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`
	// Path is the log file path.
	Path string `yaml:"path"`
}

// Load reads and parses the configuration file at path. When explicit is
// false the file is optional: a missing one yields an empty Config, since
// conversions run fine on built-in defaults alone. When the user named the
// file themselves, a missing one is an error.
func Load(path string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the configuration for errors, such as a negative line
// length or an unusable output extension.
//
// Parameters:
//   - config: The Config object to validate.
//
// Returns:
//   - error: An error if the configuration is invalid, or nil otherwise.
func Validate(config *Config) error {
	if config.Defaults.LineLength < 0 {
		return fmt.Errorf("line length cannot be negative: %d", config.Defaults.LineLength)
	}

	if strings.ContainsAny(config.Defaults.Extension, `/\`) {
		return fmt.Errorf("invalid output extension: %s (must not contain path separators)", config.Defaults.Extension)
	}

	if config.Logging.Level != "" {
		switch strings.ToLower(config.Logging.Level) {
		case "debug", "info", "warn", "error":
			// ok
		default:
			return fmt.Errorf("invalid logging level: %s (allowed: debug, info, warn, error)", config.Logging.Level)
		}
	}

	return nil
}

// ApplyDefaults sets default values for configuration fields that are
// missing: an 80 character line length, the .array output extension and
// info-level logging. A leading dot on the extension is forgiven.
//
// Parameters:
//   - config: The Config object to modify.
func ApplyDefaults(config *Config) {
	if config.Defaults.LineLength == 0 {
		config.Defaults.LineLength = carray.DefaultLineLength
	}

	config.Defaults.Extension = strings.TrimPrefix(config.Defaults.Extension, ".")
	if config.Defaults.Extension == "" {
		config.Defaults.Extension = "array"
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
}
