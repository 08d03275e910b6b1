package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// colorScheme paints names by file category and the few other cells that
// carry color in the details view.
type colorScheme struct {
	categories  map[string]*color.Color
	punctuation *color.Color
	size        *color.Color
	user        *color.Color
	date        *color.Color
	gitNew      *color.Color
	gitModified *color.Color
	gitDeleted  *color.Color
	gitOther    *color.Color
	header      *color.Color
	broken      *color.Color
	types       *FileTypes
}

func newColorScheme(types *FileTypes, enabled bool) *colorScheme {
	cs := &colorScheme{
		categories: map[string]*color.Color{
			"directory":  color.New(color.FgBlue, color.Bold),
			"symlink":    color.New(color.FgCyan),
			"executable": color.New(color.FgGreen, color.Bold),
			"image":      color.New(color.FgMagenta),
			"video":      color.New(color.FgMagenta, color.Bold),
			"music":      color.New(color.FgCyan),
			"lossless":   color.New(color.FgCyan, color.Bold),
			"crypto":     color.New(color.FgGreen),
			"document":   color.New(color.FgGreen),
			"compressed": color.New(color.FgRed),
			"temp":       color.New(color.FgHiBlack),
			"compiled":   color.New(color.FgYellow),
			"immediate":  color.New(color.FgYellow, color.Bold, color.Underline),
		},
		punctuation: color.New(color.FgHiBlack),
		size:        color.New(color.FgGreen),
		user:        color.New(color.FgYellow),
		date:        color.New(color.FgBlue),
		gitNew:      color.New(color.FgGreen),
		gitModified: color.New(color.FgBlue),
		gitDeleted:  color.New(color.FgRed),
		gitOther:    color.New(color.FgYellow),
		header:      color.New(color.Underline),
		broken:      color.New(color.FgRed),
		types:       types,
	}
	for _, c := range cs.all() {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return cs
}

func (cs *colorScheme) all() []*color.Color {
	out := []*color.Color{
		cs.punctuation, cs.size, cs.user, cs.date,
		cs.gitNew, cs.gitModified, cs.gitDeleted, cs.gitOther,
		cs.header, cs.broken,
	}
	for _, c := range cs.categories {
		out = append(out, c)
	}
	return out
}

// name paints the display name of f.
func (cs *colorScheme) name(f *File) string {
	if c, ok := cs.categories[cs.types.Classify(f)]; ok {
		return c.Sprint(f.Name)
	}
	return f.Name
}

// nameWithTarget appends " -> target" for symlinks.
func (cs *colorScheme) nameWithTarget(f *File) (plain, painted string) {
	plain, painted = f.Name, cs.name(f)
	if f.IsLink && f.LinkTarget != "" {
		plain += " -> " + f.LinkTarget
		painted += cs.punctuation.Sprint(" -> ") + f.LinkTarget
	}
	return plain, painted
}

// colorEnabled resolves a ColorMode against the writer the listing goes to.
func colorEnabled(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return writerIsTerminal(w)
}

// writerIsTerminal reports whether w is an *os.File attached to a TTY.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
