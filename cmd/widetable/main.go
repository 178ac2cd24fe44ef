// Package main is the entry point for the widetable CLI.
package main

import (
	"os"

	"github.com/widetable-labs/widetable/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
