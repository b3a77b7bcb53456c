package tui

import (
	"fmt"
	"io"
)

// PrintBanner writes the tool banner to w.
func PrintBanner(w io.Writer, version string) {
	p := ProfileFor(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  _____ __  __ ", "#818cf8"},
		{" |_   _|  \\/  |", "#a78bfa"},
		{"   | | | |\\/| |", "#c084fc"},
		{"   | | | |  | |", "#e879f9"},
		{"   |_| |_|  |_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("   turing machine "+version).Faint())
	fmt.Fprintln(w)
}
