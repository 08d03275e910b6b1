package main

import (
	"fmt"
	"io"
)

// Lister runs one listing: it resolves the targets, prints the standalone
// files, then expands the directories.
type Lister struct {
	fsys   FileSystem
	opts   *Options
	view   View
	out    io.Writer
	errOut io.Writer
	log    *ConsoleLogger

	// count is the number of entries handed to the printer so far, counting
	// unresolvable targets. It only decides whether headers are printed.
	count int
}

func newLister(fsys FileSystem, opts *Options, view View, out, errOut io.Writer, log *ConsoleLogger) *Lister {
	opts.Filter.bind(fsys, log)
	return &Lister{
		fsys:   fsys,
		opts:   opts,
		view:   view,
		out:    out,
		errOut: errOut,
		log:    log,
	}
}

// Run lists targets. It returns a *DirReadError if a directory could not
// be read, errInaccessible if any target could not be resolved, or nil.
func (l *Lister) Run(targets []string) error {
	resolver := newResolver(l.fsys, l.opts.Threads, l.opts.dirsAsFiles(), l.errOut)
	l.log.Debugf("resolving %d target(s) with at most %d concurrent probes", len(targets), resolver.threads)

	res := resolver.Resolve(targets)
	l.log.Debugf("resolved %d file(s), %d director(ies), %d failure(s)", len(res.Files), len(res.Dirs), len(res.Failures))

	if err := l.PrintFiles(res.Files); err != nil {
		return err
	}
	if err := l.ListDirs(res); err != nil {
		return err
	}
	if len(res.Failures) > 0 {
		return errInaccessible
	}
	return nil
}

// PrintFiles sorts and prints the standalone files. Targets named
// explicitly are never filtered out.
func (l *Lister) PrintFiles(files []*File) error {
	if len(files) == 0 {
		return nil
	}
	l.opts.Filter.Sort(files)
	if err := l.view.Render(l.out, nil, files); err != nil {
		return fmt.Errorf("printing files: %w", err)
	}
	return nil
}

// ListDirs expands res.Dirs with an explicit stack. Children are pushed in
// reverse display order so that they pop in display order. A directory
// that cannot be read stops the listing.
func (l *Lister) ListDirs(res *Resolution) error {
	stack := make([]string, len(res.Dirs))
	copy(stack, res.Dirs)

	l.count = res.Count
	first := len(res.Files) == 0

	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if first {
			first = false
		} else {
			fmt.Fprintln(l.out)
		}

		dir, err := readDirectory(l.fsys, path)
		if err != nil {
			readErr := &DirReadError{Path: path, Err: err}
			fmt.Fprintln(l.errOut, readErr)
			return readErr
		}

		children := l.opts.Filter.Transform(dir, dir.Entries)

		if l.opts.DirAction == DirRecurse && !l.opts.Recurse.Tree && !l.opts.Recurse.isTooDeep(pathDepth(path)) {
			for i := len(children) - 1; i >= 0; i-- {
				if child := children[i]; child.IsDir && !child.IsLink {
					stack = append(stack, child.Path)
				}
			}
		}

		if l.count > 1 {
			fmt.Fprintf(l.out, "%s:\n", path)
		}
		l.count++

		if err := l.view.Render(l.out, dir, children); err != nil {
			return fmt.Errorf("printing %s: %w", path, err)
		}
	}
	return nil
}
