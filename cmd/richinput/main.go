// ABOUTME: CLI entry point for richinput: interactive line and password demos plus terminal diagnostics
// ABOUTME: Delegates to the cobra command tree in the cmd package

package main

import (
	"os"

	"github.com/mauromedda/richinput/cmd/richinput/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
