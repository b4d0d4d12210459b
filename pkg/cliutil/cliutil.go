// Package cliutil provides utilities for the command-line interface.
package cliutil

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether both stdin and stderr are terminals, i.e.
// whether there is someone to answer a prompt.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}
