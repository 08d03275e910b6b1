package main

import (
	"fmt"
	"io"
	"strings"
)

// treeView draws directory targets with their contents beneath them,
// recursing until maxDepth levels are shown (0 for no limit).
type treeView struct {
	fsys     FileSystem
	filter   *FileFilter
	maxDepth int
	colors   *colorScheme
	details  *detailsView // non-nil for a long tree
}

// treeLine is one printed line: an entry, or a directory that could not be
// read.
type treeLine struct {
	prefix string
	file   *File
	err    error
}

func (v *treeView) Render(w io.Writer, _ *Dir, files []*File) error {
	var lines []treeLine
	for _, f := range files {
		lines = append(lines, treeLine{file: f})
		if f.IsDir && (f.AsFile || !f.IsLink) {
			lines = v.appendChildren(lines, f.Path, "", 1)
		}
	}

	if v.details != nil {
		rows := make([][]cell, 0, len(lines)+1)
		if v.details.header {
			rows = append(rows, v.details.headerRow())
		}
		for _, line := range lines {
			if line.err != nil {
				msg := line.prefix + errorLeaf(line.err)
				rows = append(rows, []cell{{plain: msg, painted: v.colors.broken.Sprint(msg)}})
				continue
			}
			rows = append(rows, v.details.row(line.file, line.prefix))
		}
		return writeTable(w, rows)
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(v.colors.punctuation.Sprint(line.prefix))
		if line.err != nil {
			b.WriteString(v.colors.broken.Sprint(errorLeaf(line.err)))
		} else {
			_, painted := v.colors.nameWithTarget(line.file)
			b.WriteString(painted)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// appendChildren reads path and appends its children at the given level.
// Symlinked directories are shown but not entered.
func (v *treeView) appendChildren(lines []treeLine, path, indent string, level int) []treeLine {
	if v.maxDepth > 0 && level > v.maxDepth {
		return lines
	}

	dir, err := readDirectory(v.fsys, path)
	if err != nil {
		return append(lines, treeLine{prefix: indent + "└── ", err: &DirReadError{Path: path, Err: err}})
	}
	children := v.filter.Transform(dir, dir.Entries)

	for i, child := range children {
		connector, next := "├── ", indent+"│   "
		if i == len(children)-1 {
			connector, next = "└── ", indent+"    "
		}
		lines = append(lines, treeLine{prefix: indent + connector, file: child})
		if child.IsDir && !child.IsLink {
			lines = v.appendChildren(lines, child.Path, next, level+1)
		}
	}
	return lines
}

func errorLeaf(err error) string {
	return fmt.Sprintf("<%v>", err)
}
