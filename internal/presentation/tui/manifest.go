package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/fomod/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintManifest writes a human summary of the install plan.
func PrintManifest(w io.Writer, m domain.Manifest) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintf(w, "%s %s\n", out.String(m.Name).Bold(), out.String(m.Version).Faint())
	if m.Author != "" {
		fmt.Fprintf(w, "by %s\n", m.Author)
	}
	fmt.Fprintln(w)
	if len(m.Files) == 0 {
		fmt.Fprintln(w, out.String("Nothing to install.").Foreground(p.Color("#fbbf24")))
		return
	}
	for _, f := range m.Files {
		kind := "file  "
		if f.Folder {
			kind = "folder"
		}
		fmt.Fprintf(w, "  %s %s -> %s\n", out.String(kind).Faint(), f.Source, out.String(f.Destination).Foreground(p.Color("#34d399")))
	}
	fmt.Fprintf(w, "\n%d entries\n", len(m.Files))
}
