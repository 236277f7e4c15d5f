// Package main provides the entry point for the techno developer CLI.
package main

import (
	"fmt"
	"os"

	"techno-ai-be/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
