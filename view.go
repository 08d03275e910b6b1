package main

import (
	"fmt"
	"io"
	"time"
)

// View renders one batch of entries: the standalone files, or the children
// of one expanded directory. dir is nil for standalone files.
type View interface {
	Render(w io.Writer, dir *Dir, files []*File) error
}

// viewEnv carries what the views need to know about where the output goes.
type viewEnv struct {
	colors   *colorScheme
	width    int  // terminal width, for the grid
	terminal bool // output is an interactive terminal
	fsys     FileSystem
	log      *ConsoleLogger
}

// newView picks the view for opts. The grid needs a terminal to size
// itself, so without one it degrades to lines unless explicitly requested.
func newView(opts *Options, env viewEnv) View {
	var details *detailsView
	if opts.View == ViewDetails {
		details = &detailsView{
			colors: env.colors,
			sizes:  opts.Sizes,
			header: opts.Header,
			now:    time.Now(),
			owners: make(map[uint32]string),
		}
		if opts.Git {
			details.git = newGitCache(env.log)
		}
	}

	if opts.isTree() {
		opts.Filter.bind(env.fsys, env.log)
		return &treeView{
			fsys:     env.fsys,
			filter:   &opts.Filter,
			maxDepth: opts.Recurse.MaxDepth,
			colors:   env.colors,
			details:  details,
		}
	}

	switch {
	case details != nil:
		return details
	case opts.View == ViewLines:
		return &linesView{colors: env.colors}
	case opts.GridForced || env.terminal:
		return &gridView{colors: env.colors, width: env.width}
	default:
		return &linesView{colors: env.colors}
	}
}

// linesView prints one entry per line.
type linesView struct {
	colors *colorScheme
}

func (v *linesView) Render(w io.Writer, _ *Dir, files []*File) error {
	for _, f := range files {
		_, painted := v.colors.nameWithTarget(f)
		if _, err := fmt.Fprintln(w, painted); err != nil {
			return err
		}
	}
	return nil
}
