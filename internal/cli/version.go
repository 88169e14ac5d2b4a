package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information (injected at build time via -ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(stdout, "sharectl version %s\n", Version)
			fmt.Fprintf(stdout, "Git commit: %s\n", GitCommit)
			fmt.Fprintf(stdout, "Go version: %s\n", runtime.Version())
		},
	}
}
