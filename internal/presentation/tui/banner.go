package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the fomod banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __                       _ ", "#34d399"},
		{"  / _| ___  _ __ ___   ___ | |", "#2dd4bf"},
		{" | |_ / _ \\| '_ ` _ \\ / _ \\| |", "#22d3ee"},
		{" |  _| (_) | | | | | | (_) |_|", "#38bdf8"},
		{" |_|  \\___/|_| |_| |_|\\___/(_)", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String(" installer wizard v"+version).Faint())
	fmt.Fprintln(w)
}
