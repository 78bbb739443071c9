// Package main is the entry point for the clawmon CLI.
package main

import (
	"os"

	"github.com/clawmon/clawmon/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
