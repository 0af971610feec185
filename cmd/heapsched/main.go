// Package main is the entry point for the heapsched CLI.
package main

import (
	"os"

	"github.com/coffyg/heapsched/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
