package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/facette/natsort"
	gitignore "github.com/monochromegane/go-gitignore"
)

// SortField selects the key entries are ordered by.
type SortField int

const (
	SortName     SortField = iota // natural order, case-insensitive
	SortNameCase                  // natural order, uppercase first
	SortExtension
	SortSize
	SortModified
	SortType
	SortNone
)

var sortFieldNames = map[string]SortField{
	"name":      SortName,
	"filename":  SortName,
	"Name":      SortNameCase,
	"Filename":  SortNameCase,
	"extension": SortExtension,
	"ext":       SortExtension,
	"size":      SortSize,
	"filesize":  SortSize,
	"modified":  SortModified,
	"date":      SortModified,
	"time":      SortModified,
	"type":      SortType,
	"none":      SortNone,
}

func parseSortField(s string) (SortField, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortName, nil
	}
	if field, ok := sortFieldNames[s]; ok {
		return field, nil
	}
	if field, ok := sortFieldNames[strings.ToLower(s)]; ok {
		return field, nil
	}
	return SortName, &OptionsError{Key: keySort, Value: s, Reason: "unknown sort field"}
}

// FileFilter is the sort and filter policy applied to every listing.
type FileFilter struct {
	ShowHidden  bool
	SortField   SortField
	Reverse     bool
	DirsFirst   bool
	IgnoreGlobs []string
	GitIgnore   bool

	ignores *ignoreRules // set by bind when GitIgnore is on
}

// bind gives the filter the filesystem its .gitignore files are read from.
// Binding again keeps the first set of rules, so the lister and the tree
// view share one cache.
func (ff *FileFilter) bind(fsys FileSystem, log *ConsoleLogger) {
	if ff.GitIgnore && ff.ignores == nil {
		ff.ignores = newIgnoreRules(fsys, log)
	}
}

func (ff *FileFilter) validate() error {
	if _, err := matchesAnyPattern("", ff.IgnoreGlobs); err != nil {
		return &OptionsError{Key: keyIgnoreGlob, Value: strings.Join(ff.IgnoreGlobs, "|"), Reason: err.Error()}
	}
	return nil
}

// Transform filters and sorts the children of dir into a new slice; files
// itself is left untouched.
func (ff *FileFilter) Transform(dir *Dir, files []*File) []*File {
	files = ff.filter(dir, files)
	ff.Sort(files)
	return files
}

// Sort orders files in place. It is used on its own for standalone
// targets, which are never filtered out.
func (ff *FileFilter) Sort(files []*File) {
	if ff.SortField != SortNone {
		sort.SliceStable(files, func(i, j int) bool {
			return ff.less(files[i], files[j])
		})
	}
	if ff.Reverse {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}
	if ff.DirsFirst {
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].IsDir && !files[j].IsDir
		})
	}
}

func (ff *FileFilter) filter(dir *Dir, files []*File) []*File {
	kept := make([]*File, 0, len(files))
	for _, f := range files {
		name := filepath.Base(f.Path)
		if !ff.ShowHidden && isHidden(name) {
			continue
		}
		if excluded, _ := matchesAnyPattern(name, ff.IgnoreGlobs); excluded {
			continue
		}
		if dir != nil && ff.ignores != nil && ff.ignores.Ignored(f.Path, f.IsDir) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func (ff *FileFilter) less(a, b *File) bool {
	switch ff.SortField {
	case SortNameCase:
		return natsort.Compare(a.Name, b.Name)
	case SortExtension:
		if ea, eb := a.Ext(), b.Ext(); ea != eb {
			return ea < eb
		}
	case SortSize:
		if a.Size() != b.Size() {
			return a.Size() < b.Size()
		}
	case SortModified:
		if ta, tb := a.ModTime(), b.ModTime(); !ta.Equal(tb) {
			return ta.Before(tb)
		}
	case SortType:
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
	}
	return natsort.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

// ignoreRules applies .gitignore files the way git does across nested
// directories: an entry is checked against the file in its own directory
// and in every ancestor up to the worktree root, or the top of the path
// when it is not inside a repository.
type ignoreRules struct {
	fsys   FileSystem
	log    *ConsoleLogger
	levels map[string]*ignoreLevel
}

type ignoreLevel struct {
	matcher gitignore.IgnoreMatcher // nil without a .gitignore
	top     bool                    // holds .git
}

func newIgnoreRules(fsys FileSystem, log *ConsoleLogger) *ignoreRules {
	return &ignoreRules{
		fsys:   fsys,
		log:    log,
		levels: make(map[string]*ignoreLevel),
	}
}

// Ignored reports whether any applicable .gitignore excludes path.
func (r *ignoreRules) Ignored(path string, isDir bool) bool {
	dir := filepath.Dir(path)
	for {
		lv := r.level(dir)
		if lv.matcher != nil && lv.matcher.Match(path, isDir) {
			return true
		}
		parent := filepath.Dir(dir)
		if lv.top || parent == dir || filepath.Base(dir) == ".." {
			return false
		}
		dir = parent
	}
}

func (r *ignoreRules) level(dir string) *ignoreLevel {
	if lv, ok := r.levels[dir]; ok {
		return lv
	}

	lv := &ignoreLevel{}
	if _, err := r.fsys.Lstat(filepath.Join(dir, ".git")); err == nil {
		lv.top = true
	}
	path := filepath.Join(dir, ".gitignore")
	if rc, err := r.fsys.Open(path); err == nil {
		lv.matcher = gitignore.NewGitIgnoreFromReader(dir, rc)
		rc.Close()
		r.log.Tracef("loaded %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		r.log.Warnf("could not read %s: %v", path, err)
	}
	r.levels[dir] = lv
	return lv
}

// parsePatterns splits a '|'-separated list of glob patterns.
func parsePatterns(patterns string) []string {
	if strings.TrimSpace(patterns) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(patterns, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// matchesAnyPattern checks if the given name matches any of the provided glob patterns.
func matchesAnyPattern(name string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
