package main

import (
	"os"
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		FormatError(os.Stderr, err, ShouldUseColor(noColorRequested(os.Args)))
		os.Exit(1)
	}
}

func noColorRequested(args []string) bool {
	for _, a := range args {
		if a == "--no-color" {
			return true
		}
	}
	return false
}
