package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"quill/internal/diag"
	"quill/internal/source"
)

// Pretty prints diagnostics in a human-readable form. Call bag.Sort()
// first. Each diagnostic renders as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a caret underline, then notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	sevColor := map[diag.Severity]*color.Color{
		diag.SevInfo:    color.New(color.FgCyan),
		diag.SevWarning: color.New(color.FgYellow),
		diag.SevError:   color.New(color.FgRed, color.Bold),
		diag.SevFatal:   color.New(color.FgRed, color.Bold),
		diag.SevBug:     color.New(color.FgMagenta, color.Bold),
	}

	for _, d := range bag.Items() {
		sev := d.Severity.String()
		if opts.Color {
			if c, ok := sevColor[d.Severity]; ok {
				sev = c.Sprint(sev)
			}
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(fs, d.Primary, opts.PathMode), sev, d.Code.ID(), d.Message)
		writeContext(w, fs, d.Primary)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s: note: %s\n", location(fs, n.Span, opts.PathMode), n.Msg)
				writeContext(w, fs, n.Span)
			}
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if int(sp.File) >= fs.Len() {
		return "<input>:0:0"
	}
	f := fs.Get(sp.File)
	path := f.Path
	if mode == PathModeBasename {
		path = filepath.Base(path)
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// writeContext prints the offending line with a caret underline. The
// underline is aligned by display width, so wide runes in the prefix do
// not skew it.
func writeContext(w io.Writer, fs *source.FileSet, sp source.Span) {
	if int(sp.File) >= fs.Len() {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := norm.NFC.String(f.GetLine(start.Line))
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	// Columns are byte offsets into the line; display width comes from
	// measuring the sliced prefix, so wide runes pad correctly.
	prefix := int(start.Col) - 1
	if prefix > len(line) {
		prefix = len(line)
	}
	pad := runewidth.StringWidth(line[:prefix])

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		to := int(end.Col) - 1
		if to > len(line) {
			to = len(line)
		}
		width = runewidth.StringWidth(line[prefix:to])
		if width < 1 {
			width = 1
		}
	}
	fmt.Fprintf(w, "  %s^%s\n", strings.Repeat(" ", pad), strings.Repeat("~", width-1))
}
