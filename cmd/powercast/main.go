package main

import (
	"os"

	"github.com/jugesdebnath7/powercast/cmd/powercast/commands"
)

// main is the entry point for the powercast CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
