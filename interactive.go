package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dustin/go-humanize"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// errAborted is returned when the user closes the finder without choosing.
var errAborted = errors.New("selection aborted")

// interactiveCandidates walks root for entries the user may pick, skipping
// hidden entries unless showHidden is set.
func interactiveCandidates(fsys fs.FS, showHidden bool) ([]string, error) {
	var candidates []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are simply not offered.
			return nil
		}
		if path == "." {
			return nil
		}
		if !showHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		candidates = append(candidates, filepath.FromSlash(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning for files/directories: %w", err)
	}
	return candidates, nil
}

// runInteractiveFinder lets the user pick targets below the current
// directory with a fuzzy finder. Tab selects several.
func runInteractiveFinder(fsys FileSystem, root fs.FS, showHidden bool) ([]string, error) {
	candidates, err := interactiveCandidates(root, showHidden)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no files or directories found to select from")
	}

	idx, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string { return candidates[i] },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select paths to list. Tab selects several, Enter confirms."
			}
			return previewTarget(fsys, candidates[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, errAborted
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	selected := make([]string, len(idx))
	for i, index := range idx {
		selected[i] = candidates[index]
	}
	return selected, nil
}

func previewTarget(fsys FileSystem, path string) string {
	info, err := fsys.Stat(path)
	if err != nil {
		return (&ProbeError{Path: path, Err: err}).Error()
	}
	if info.IsDir() {
		return fmt.Sprintf("%s\nDirectory", path)
	}
	return fmt.Sprintf("%s\nFile, %s\nModified %s", path, humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
}
