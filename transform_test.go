package main

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(files []*File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func readTestDir(t *testing.T, root string) *Dir {
	t.Helper()
	dir, err := readDirectory(osFS{}, root)
	require.NoError(t, err)
	return dir
}

func TestTransformFiltersHidden(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, ".env", "main.go", ".git/", "src/")
	dir := readTestDir(t, root)

	ff := &FileFilter{SortField: SortName}
	assert.Equal(t, []string{"main.go", "src"}, names(ff.Transform(dir, dir.Entries)))

	ff.ShowHidden = true
	assert.Equal(t, []string{".env", ".git", "main.go", "src"}, names(ff.Transform(dir, dir.Entries)))
}

func TestTransformLeavesInputUntouched(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, ".a", "b", "c")
	dir := readTestDir(t, root)
	before := names(dir.Entries)

	(&FileFilter{SortField: SortName, Reverse: true}).Transform(dir, dir.Entries)
	assert.Equal(t, before, names(dir.Entries))
}

func TestTransformIgnoreGlobs(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "keep.go", "drop.tmp", "also.bak", "dir/")
	dir := readTestDir(t, root)

	ff := &FileFilter{SortField: SortName, IgnoreGlobs: parsePatterns("*.tmp | *.bak")}
	assert.Equal(t, []string{"dir", "keep.go"}, names(ff.Transform(dir, dir.Entries)))
}

func TestTransformGitIgnore(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "main.go", "debug.log", "build/out.bin")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\nbuild/\n"), 0o644))
	dir := readTestDir(t, root)

	ff := &FileFilter{SortField: SortName, GitIgnore: true}
	ff.bind(osFS{}, NewConsoleLogger(io.Discard, "error"))
	assert.Equal(t, []string{"main.go"}, names(ff.Transform(dir, dir.Entries)))

	plain := &FileFilter{SortField: SortName}
	assert.Equal(t, []string{"build", "debug.log", "main.go"}, names(plain.Transform(dir, dir.Entries)))
}

func TestTransformGitIgnoreInheritsParentRules(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "sub/deep.log", "sub/keep.txt", "sub/inner/x.tmp", "sub/inner/y.txt")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", ".gitignore"), []byte("*.tmp\n"), 0o644))

	ff := &FileFilter{SortField: SortName, GitIgnore: true}
	ff.bind(osFS{}, NewConsoleLogger(io.Discard, "error"))

	sub := readTestDir(t, filepath.Join(root, "sub"))
	assert.Equal(t, []string{"inner", "keep.txt"}, names(ff.Transform(sub, sub.Entries)))

	inner := readTestDir(t, filepath.Join(root, "sub", "inner"))
	assert.Equal(t, []string{"y.txt"}, names(ff.Transform(inner, inner.Entries)))
}

func TestTransformGitIgnoreStopsAtWorktreeRoot(t *testing.T) {
	outer := t.TempDir()
	makeTree(t, outer, "repo/.git/", "repo/notes.txt", "repo/run.log")
	require.NoError(t, os.WriteFile(filepath.Join(outer, ".gitignore"), []byte("*.txt\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outer, "repo", ".gitignore"), []byte("*.log\n"), 0o644))

	ff := &FileFilter{SortField: SortName, GitIgnore: true}
	ff.bind(osFS{}, NewConsoleLogger(io.Discard, "error"))

	repo := readTestDir(t, filepath.Join(outer, "repo"))
	assert.Equal(t, []string{"notes.txt"}, names(ff.Transform(repo, repo.Entries)))
}

// lockedOpenFS refuses to open one file.
type lockedOpenFS struct {
	osFS
	locked string
}

func (l lockedOpenFS) Open(name string) (io.ReadCloser, error) {
	if name == l.locked {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return l.osFS.Open(name)
}

func TestTransformGitIgnoreUnreadable(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a.log", "b.txt")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n"), 0o644))
	dir := readTestDir(t, root)

	var logs bytes.Buffer
	ff := &FileFilter{SortField: SortName, GitIgnore: true}
	ff.bind(lockedOpenFS{locked: filepath.Join(root, ".gitignore")}, NewConsoleLogger(&logs, "warn"))

	assert.Equal(t, []string{"a.log", "b.txt"}, names(ff.Transform(dir, dir.Entries)))
	assert.Contains(t, logs.String(), "WARN could not read "+filepath.Join(root, ".gitignore"))
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("\n")), "each directory is read once")
}

func TestFilterBindKeepsFirstRules(t *testing.T) {
	ff := &FileFilter{GitIgnore: true}
	ff.bind(osFS{}, nil)
	first := ff.ignores
	ff.bind(osFS{}, nil)
	assert.Same(t, first, ff.ignores)

	off := &FileFilter{}
	off.bind(osFS{}, nil)
	assert.Nil(t, off.ignores)
}

func TestSortFields(t *testing.T) {
	root := t.TempDir()
	write := func(name string, size int) {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), make([]byte, size), 0o644))
	}
	write("file10.txt", 30)
	write("file2.md", 10)
	write("File1.go", 20)
	dir := readTestDir(t, root)

	tests := []struct {
		name string
		ff   FileFilter
		want []string
	}{
		{"natural name", FileFilter{SortField: SortName}, []string{"File1.go", "file2.md", "file10.txt"}},
		{"size", FileFilter{SortField: SortSize}, []string{"file2.md", "File1.go", "file10.txt"}},
		{"extension", FileFilter{SortField: SortExtension}, []string{"File1.go", "file2.md", "file10.txt"}},
		{"reverse name", FileFilter{SortField: SortName, Reverse: true}, []string{"file10.txt", "file2.md", "File1.go"}},
		{"reverse size", FileFilter{SortField: SortSize, Reverse: true}, []string{"file10.txt", "File1.go", "file2.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(tt.ff.Transform(dir, dir.Entries)))
		})
	}
}

func TestSortCaseSensitiveName(t *testing.T) {
	files := func() []*File { return []*File{{Name: "apple"}, {Name: "Banana"}, {Name: "cherry"}} }

	insensitive := files()
	(&FileFilter{SortField: SortName}).Sort(insensitive)
	assert.Equal(t, []string{"apple", "Banana", "cherry"}, names(insensitive))

	sensitive := files()
	(&FileFilter{SortField: SortNameCase}).Sort(sensitive)
	assert.Equal(t, []string{"Banana", "apple", "cherry"}, names(sensitive))
}

func TestSortDirectoriesFirst(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "b.txt", "a/", "c/", "d.txt")
	dir := readTestDir(t, root)

	assert.Equal(t, []string{"a", "b.txt", "c", "d.txt"}, names((&FileFilter{SortField: SortName}).Transform(dir, dir.Entries)))
	assert.Equal(t, []string{"a", "c", "b.txt", "d.txt"}, names((&FileFilter{SortField: SortName, DirsFirst: true}).Transform(dir, dir.Entries)))
	assert.Equal(t, []string{"c", "a", "d.txt", "b.txt"}, names((&FileFilter{SortField: SortName, DirsFirst: true, Reverse: true}).Transform(dir, dir.Entries)))
	assert.Equal(t, []string{"a", "c", "b.txt", "d.txt"}, names((&FileFilter{SortField: SortType}).Transform(dir, dir.Entries)))
}

func TestSortModified(t *testing.T) {
	root := t.TempDir()
	for name, age := range map[string]time.Duration{"old": 3 * time.Hour, "new": time.Minute, "mid": time.Hour} {
		path := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		mtime := time.Now().Add(-age)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
	dir := readTestDir(t, root)

	ff := &FileFilter{SortField: SortModified}
	assert.Equal(t, []string{"old", "mid", "new"}, names(ff.Transform(dir, dir.Entries)))
}

func TestSortStandaloneFilesAreNotFiltered(t *testing.T) {
	files := []*File{{Name: ".hidden"}, {Name: "b"}, {Name: "a"}}
	(&FileFilter{SortField: SortName}).Sort(files)
	assert.Equal(t, []string{".hidden", "a", "b"}, names(files))
}

func TestParseSortField(t *testing.T) {
	for in, want := range map[string]SortField{
		"":          SortName,
		"name":      SortName,
		"Name":      SortNameCase,
		"SIZE":      SortSize,
		"ext":       SortExtension,
		"date":      SortModified,
		"none":      SortNone,
		" type ":    SortType,
		"extension": SortExtension,
	} {
		got, err := parseSortField(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseSortField("colour")
	var optsErr *OptionsError
	require.ErrorAs(t, err, &optsErr)
	assert.Equal(t, keySort, optsErr.Key)
}

func TestParsePatterns(t *testing.T) {
	assert.Nil(t, parsePatterns(""))
	assert.Nil(t, parsePatterns("  "))
	assert.Equal(t, []string{"*.o", "tmp*"}, parsePatterns("*.o| tmp* |"))
}

func TestFilterValidateRejectsBadGlob(t *testing.T) {
	ff := &FileFilter{IgnoreGlobs: []string{"[oops"}}
	var optsErr *OptionsError
	require.ErrorAs(t, ff.validate(), &optsErr)
	assert.Equal(t, keyIgnoreGlob, optsErr.Key)
}
