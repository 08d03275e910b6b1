package main

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// File holds a metadata snapshot of a single filesystem entry, either a
// standalone target or a child read from a directory.
type File struct {
	Path       string
	Name       string      // display name: the target as given, or the base name of a child
	Info       fs.FileInfo // raw metadata
	IsDir      bool
	IsLink     bool
	LinkTarget string
	AsFile     bool // a directory rendered as a single entry instead of being expanded
	Dir        *Dir // parent directory, nil for standalone targets
}

// Dir is a directory whose immediate children have been read.
type Dir struct {
	Path    string
	Entries []*File
}

// IsHidden reports whether the entry is a dotfile.
func (f *File) IsHidden() bool {
	return isHidden(filepath.Base(f.Path))
}

// Ext returns the lowercased extension without the leading dot.
func (f *File) Ext() string {
	base := filepath.Base(f.Path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

func (f *File) Size() int64 {
	if f.Info == nil {
		return 0
	}
	return f.Info.Size()
}

func (f *File) ModTime() time.Time {
	if f.Info == nil {
		return time.Time{}
	}
	return f.Info.ModTime()
}

// IsExecutable reports a regular file with any execute bit set.
func (f *File) IsExecutable() bool {
	return f.Info != nil && f.Info.Mode().IsRegular() && f.Info.Mode().Perm()&0o111 != 0
}

// newStandaloneFile builds the entry for a top-level target. info comes from
// stat, so a symlink to a directory counts as a directory here; the link
// itself is still recorded.
func newStandaloneFile(fsys FileSystem, path string, info fs.FileInfo) *File {
	f := &File{
		Path:  path,
		Name:  path,
		Info:  info,
		IsDir: info.IsDir(),
	}
	if linfo, err := fsys.Lstat(path); err == nil && linfo.Mode()&fs.ModeSymlink != 0 {
		f.IsLink = true
		f.LinkTarget, _ = fsys.Readlink(path)
	}
	return f
}

// newChildFile builds the entry for a directory child from lstat metadata.
// Symlinks are never treated as directories, so recursion cannot loop.
func newChildFile(fsys FileSystem, dir *Dir, info fs.FileInfo) *File {
	path := filepath.Join(dir.Path, info.Name())
	f := &File{
		Path:  path,
		Name:  info.Name(),
		Info:  info,
		IsDir: info.IsDir(),
		Dir:   dir,
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		f.IsLink = true
		f.LinkTarget, _ = fsys.Readlink(path)
	}
	return f
}

// readDirectory reads the immediate children of path, hidden entries
// included. Filtering is left to the transform.
func readDirectory(fsys FileSystem, path string) (*Dir, error) {
	infos, err := fsys.ReadDir(path)
	if err != nil {
		return nil, err
	}
	dir := &Dir{Path: path}
	dir.Entries = make([]*File, 0, len(infos))
	for _, info := range infos {
		dir.Entries = append(dir.Entries, newChildFile(fsys, dir, info))
	}
	return dir, nil
}

// pathDepth is the recursion depth of a directory path: the number of path
// components, not counting "." components, plus one. A leading root counts
// as a component, so "." is 1, "a" is 2, "./a/b" is 3 and "/tmp" is 3.
func pathDepth(path string) int {
	n := 0
	if filepath.IsAbs(path) {
		n++
	}
	for _, c := range strings.Split(filepath.ToSlash(path), "/") {
		if c == "" || c == "." {
			continue
		}
		n++
	}
	return n + 1
}

// isHidden checks if a base name is hidden (starts with '.').
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return len(name) > 0 && name[0] == '.'
}
