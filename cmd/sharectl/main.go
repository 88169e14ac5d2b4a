package main

import (
	"fmt"
	"os"

	"github.com/gridshare/sharing/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sharectl: %v\n", err)
		os.Exit(1)
	}
}
