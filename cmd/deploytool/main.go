// Package main is the entry point for the deploytool CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/deploytool/cmd/deploytool/commands"
	"github.com/thoreinstein/deploytool/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		exitErr := errors.ForExit(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr)
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}
}
