package main

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/go-git/go-billy/v5"
)

// FileSystem is the read-only view of the filesystem that probes and the
// directory reader work against.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	// ReadDir lists the immediate children of name, hidden entries
	// included, with lstat metadata.
	ReadDir(name string) ([]fs.FileInfo, error)
	Readlink(name string) (string, error)
	Open(name string) (io.ReadCloser, error)
}

// osFS implements FileSystem using the local filesystem.
type osFS struct{}

func (osFS) Stat(name string) (fs.FileInfo, error)   { return os.Stat(name) }
func (osFS) Lstat(name string) (fs.FileInfo, error)  { return os.Lstat(name) }
func (osFS) Readlink(name string) (string, error)    { return os.Readlink(name) }
func (osFS) Open(name string) (io.ReadCloser, error) { return os.Open(name) }

func (osFS) ReadDir(name string) ([]fs.FileInfo, error) {
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}
	infos := make([]fs.FileInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			// Removed between the readdir and the lstat.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// billyFS adapts a go-billy filesystem, such as an in-memory memfs or a
// chrooted osfs, to FileSystem.
type billyFS struct {
	fs billy.Filesystem
}

func newBillyFS(bfs billy.Filesystem) *billyFS {
	return &billyFS{fs: bfs}
}

func (b *billyFS) Stat(name string) (fs.FileInfo, error)      { return b.fs.Stat(name) }
func (b *billyFS) Lstat(name string) (fs.FileInfo, error)     { return b.fs.Lstat(name) }
func (b *billyFS) ReadDir(name string) ([]fs.FileInfo, error) { return b.fs.ReadDir(name) }
func (b *billyFS) Readlink(name string) (string, error)       { return b.fs.Readlink(name) }
func (b *billyFS) Open(name string) (io.ReadCloser, error)    { return b.fs.Open(name) }
