package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gridshare/sharing/pkg/params"
	"github.com/spf13/viper"
)

const envPrefix = "SHARECTL"

// Config holds the CLI configuration, merged from flags, the environment
// (SHARECTL_PARAMS, SHARECTL_LOG_LEVEL, ...) and an optional config file.
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// Params is the path to the YAML public parameter file
	Params string

	// LogLevel is one of debug, info, warn, error
	LogLevel string

	// OutputFormat is json or cbor
	OutputFormat string
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Params:       "params.yaml",
		LogLevel:     "warn",
		OutputFormat: "json",
	}
}

// load fills c from v, reading the config file first if one is set.
func (c *Config) load(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if c.ConfigFile != "" {
		v.SetConfigFile(c.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	c.Params = v.GetString("params")
	c.LogLevel = v.GetString("log-level")
	c.OutputFormat = v.GetString("output")
	return nil
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// Provider loads the public parameters.
func (c *Config) Provider() (*params.Static, error) {
	return params.LoadFile(c.Params)
}
