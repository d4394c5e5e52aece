// Package main provides the responda CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/responda-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
