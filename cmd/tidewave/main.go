// Package main is the entry point for the tidewave CLI.
package main

import (
	"os"

	"github.com/tidewave-io/tidewave/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
