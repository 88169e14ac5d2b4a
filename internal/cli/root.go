// Package cli implements the sharectl command line.
package cli

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/math/arith"
	"github.com/gridshare/sharing/pkg/sharing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand returns the sharectl command, printing results to stdout
// and logs to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cfg := NewConfig()
	v := viper.New()

	root := &cobra.Command{
		Use:   "sharectl",
		Short: "sharectl - threshold sharing of measurements",
		Long: `sharectl splits a measurement into pre-weighted shares for the
aggregation servers of a substation, and attaches the commitment or proof
of the selected construction:

  - hash:    discrete-log homomorphic hash
  - linear:  linear authenticator, in two phases`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cfg.load(v)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "", "config file (yaml, json or toml)")
	flags.String("params", cfg.Params, "public parameter file")
	flags.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringP("output", "o", cfg.OutputFormat, "output format (json, cbor)")
	_ = v.BindPFlags(flags)

	root.AddCommand(
		newHashCmd(cfg, stdout, stderr),
		newLinearCmd(cfg, stdout, stderr),
		newFingerprintCmd(cfg, stdout),
		newVersionCmd(stdout),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand(os.Stdout, os.Stderr).Execute()
}

// options returns the sharing options of the configuration.
func (c *Config) options(stderr io.Writer) ([]sharing.Option, error) {
	logger, err := c.Logger(stderr)
	if err != nil {
		return nil, err
	}
	return []sharing.Option{sharing.WithLogger(logger)}, nil
}

// parseSecret reads a signed integer, in decimal or with a 0x prefix.
func parseSecret(raw string) (*saferith.Int, error) {
	x, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return nil, fmt.Errorf("invalid secret %q", raw)
	}
	return arith.IntFromBig(x), nil
}

func decimal(x interface{ Big() *big.Int }) string {
	return x.Big().String()
}
