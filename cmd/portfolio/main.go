// Package main provides the portfolio assistant CLI.
package main

import (
	"fmt"
	"os"

	"github.com/aayud22/ayushi.dev/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
