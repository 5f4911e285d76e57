// Package config holds the settings of the minic command-line tool and loads
// them from a TOML file.
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"github.com/metaphox/minic/lexer"
	"github.com/metaphox/minic/printer"
)

// EnvPath names the environment variable consulted when no config path is
// given on the command line.
const EnvPath = "MINIC_CONFIG"

// Config holds the complete tool configuration
type Config struct {
	MaxLexemeLen int    `toml:"max_lexeme_len"`
	LogLevel     string `toml:"log_level"`
	Format       string `toml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		MaxLexemeLen: lexer.DefaultMaxLexemeLen,
		LogLevel:     "info",
		Format:       string(printer.Tree),
	}
}

// Load reads the TOML file at path on top of the defaults. An empty path
// falls back to $MINIC_CONFIG; when that is unset too the defaults are
// returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return cfg, nil
	}
	path = os.ExpandEnv(path)

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if c.MaxLexemeLen < 1 {
		return errors.Errorf("max_lexeme_len must be positive, got %d", c.MaxLexemeLen)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	if _, err := printer.ParseFormat(c.Format); err != nil {
		return errors.Wrap(err, "format")
	}
	return nil
}

// Level returns the parsed log level, or info when LogLevel is invalid.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// OutputFormat returns the parsed output format, or the tree format when
// Format is invalid.
func (c *Config) OutputFormat() printer.Format {
	f, err := printer.ParseFormat(c.Format)
	if err != nil {
		return printer.Tree
	}
	return f
}
