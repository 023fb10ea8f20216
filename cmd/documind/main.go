// ABOUTME: Main entry point for the documind CLI
// ABOUTME: Wires build version info into the command tree and executes it
package main

import (
	"github.com/documind/documind/cmd/documind/commands"
)

// Build information, set via ldflags at release time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)
	commands.Execute()
}
