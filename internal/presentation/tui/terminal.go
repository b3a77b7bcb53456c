// Package tui renders machines and runs for a terminal.
package tui

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ProfileFor picks a colour profile for w. Anything that is not a terminal,
// or has NO_COLOR set, gets plain ASCII.
func ProfileFor(w io.Writer) termenv.Profile {
	if !IsTerminal(w) || os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
