// Package main is the entry point for the bookctl client.
package main

import (
	"fmt"
	"os"

	"bookshelf/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
