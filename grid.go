package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	gridSpacing  = 2
	defaultWidth = 80
)

// gridView lays names out in columns, filled top to bottom, using as many
// columns as fit the terminal width.
type gridView struct {
	colors *colorScheme
	width  int
}

func (v *gridView) Render(w io.Writer, _ *Dir, files []*File) error {
	if len(files) == 0 {
		return nil
	}

	widths := make([]int, len(files))
	painted := make([]string, len(files))
	for i, f := range files {
		widths[i] = runewidth.StringWidth(f.Name)
		painted[i] = v.colors.name(f)
	}

	rows, colWidths := fitGrid(widths, v.width, gridSpacing)

	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := range colWidths {
			i := c*rows + r
			if i >= len(files) {
				break
			}
			b.WriteString(painted[i])
			// No padding after the last cell of a row.
			if next := (c+1)*rows + r; c < len(colWidths)-1 && next < len(files) {
				b.WriteString(strings.Repeat(" ", colWidths[c]-widths[i]+gridSpacing))
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// fitGrid finds the fewest rows whose column-major layout fits in width.
// It returns the row count and the width of each column used. A single
// column is always accepted, however wide.
func fitGrid(widths []int, width, spacing int) (int, []int) {
	n := len(widths)
	for rows := 1; rows < n; rows++ {
		cols := (n + rows - 1) / rows
		colWidths := make([]int, cols)
		total := spacing * (cols - 1)
		for c := 0; c < cols; c++ {
			for r := 0; r < rows; r++ {
				i := c*rows + r
				if i < n && widths[i] > colWidths[c] {
					colWidths[c] = widths[i]
				}
			}
			total += colWidths[c]
		}
		if total <= width {
			return rows, colWidths
		}
	}
	maxWidth := 0
	for _, w := range widths {
		maxWidth = max(maxWidth, w)
	}
	return n, []int{maxWidth}
}

// terminalWidth returns the width of w if it is a terminal, then $COLUMNS,
// then 80.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	return defaultWidth
}
