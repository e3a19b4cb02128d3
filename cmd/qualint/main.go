// Package main provides the qualint CLI.
package main

import (
	"os"

	"github.com/vsrg-tools/qualint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
