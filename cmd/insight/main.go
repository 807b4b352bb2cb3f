package main

import (
	"os"

	"github.com/kognisi/insight/cmd/insight/commands"
)

// main is the entry point for the Insight CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
