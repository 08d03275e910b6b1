package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestOptionsDefaults(t *testing.T) {
	opts, err := optionsFromViper(newTestViper(nil))
	require.NoError(t, err)

	assert.Equal(t, DirList, opts.DirAction)
	assert.Equal(t, ViewGrid, opts.View)
	assert.False(t, opts.GridForced)
	assert.Equal(t, SortName, opts.Filter.SortField)
	assert.Equal(t, ColorAuto, opts.Color)
	assert.Equal(t, SizeDecimal, opts.Sizes)
	assert.Equal(t, 0, opts.Threads)
	assert.Equal(t, "warn", opts.LogLevel)
	assert.False(t, opts.dirsAsFiles())
}

func TestOptionsDirectoryActions(t *testing.T) {
	tests := []struct {
		name        string
		values      map[string]any
		action      DirAction
		recurse     RecurseOptions
		dirsAsFiles bool
	}{
		{"list", nil, DirList, RecurseOptions{}, false},
		{"list dirs", map[string]any{keyListDirs: true}, DirAsFile, RecurseOptions{}, true},
		{"recurse", map[string]any{keyRecurse: true}, DirRecurse, RecurseOptions{}, false},
		{"recurse with level", map[string]any{keyRecurse: true, keyLevel: 2}, DirRecurse, RecurseOptions{MaxDepth: 2}, false},
		{"tree", map[string]any{keyTree: true}, DirRecurse, RecurseOptions{Tree: true}, true},
		{"tree with level", map[string]any{keyTree: true, keyLevel: 1}, DirRecurse, RecurseOptions{Tree: true, MaxDepth: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := optionsFromViper(newTestViper(tt.values))
			require.NoError(t, err)
			assert.Equal(t, tt.action, opts.DirAction)
			assert.Equal(t, tt.recurse, opts.Recurse)
			assert.Equal(t, tt.dirsAsFiles, opts.dirsAsFiles())
		})
	}
}

func TestOptionsViews(t *testing.T) {
	opts, err := optionsFromViper(newTestViper(map[string]any{keyLong: true, keyHeader: true, keyGit: true, keyBinary: true}))
	require.NoError(t, err)
	assert.Equal(t, ViewDetails, opts.View)
	assert.True(t, opts.Header)
	assert.True(t, opts.Git)
	assert.Equal(t, SizeBinary, opts.Sizes)

	opts, err = optionsFromViper(newTestViper(map[string]any{keyOneline: true}))
	require.NoError(t, err)
	assert.Equal(t, ViewLines, opts.View)

	opts, err = optionsFromViper(newTestViper(map[string]any{keyGrid: true, keyColor: "Never"}))
	require.NoError(t, err)
	assert.Equal(t, ViewGrid, opts.View)
	assert.True(t, opts.GridForced)
	assert.Equal(t, ColorNever, opts.Color)
}

func TestOptionsRejected(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		key    string
	}{
		{"negative threads", map[string]any{keyThreads: -1}, keyThreads},
		{"negative level", map[string]any{keyRecurse: true, keyLevel: -2}, keyLevel},
		{"level without recursion", map[string]any{keyLevel: 2}, keyLevel},
		{"list dirs with tree", map[string]any{keyListDirs: true, keyTree: true}, keyListDirs},
		{"list dirs with recurse", map[string]any{keyListDirs: true, keyRecurse: true}, keyListDirs},
		{"long and oneline", map[string]any{keyLong: true, keyOneline: true}, keyOneline},
		{"header without long", map[string]any{keyHeader: true}, keyHeader},
		{"git without long", map[string]any{keyGit: true}, keyGit},
		{"binary and bytes", map[string]any{keyLong: true, keyBinary: true, keyBytes: true}, keyBinary},
		{"bad color", map[string]any{keyColor: "sometimes"}, keyColor},
		{"bad sort", map[string]any{keySort: "inode"}, keySort},
		{"bad glob", map[string]any{keyIgnoreGlob: "[x"}, keyIgnoreGlob},
		{"clipboard and pdf", map[string]any{keyClipboard: true, keyPDF: "out.pdf"}, keyClipboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := optionsFromViper(newTestViper(tt.values))
			var optsErr *OptionsError
			require.ErrorAs(t, err, &optsErr)
			assert.Equal(t, tt.key, optsErr.Key)
			assert.Equal(t, exitOptions, exitCode(err, io.Discard))
		})
	}
}

func TestIsTooDeep(t *testing.T) {
	unlimited := RecurseOptions{}
	assert.False(t, unlimited.isTooDeep(100))

	limited := RecurseOptions{MaxDepth: 3}
	assert.False(t, limited.isTooDeep(1))
	assert.False(t, limited.isTooDeep(2))
	assert.True(t, limited.isTooDeep(3))
	assert.True(t, limited.isTooDeep(4))
}

func TestInitConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "lens.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("long = true\nsort = \"size\"\nthreads = 3\n"), 0o644))

	v := newTestViper(nil)
	used, err := initConfig(v, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, used)

	opts, err := optionsFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ViewDetails, opts.View)
	assert.Equal(t, SortSize, opts.Filter.SortField)
	assert.Equal(t, 3, opts.Threads)
}

func TestInitConfigEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LENS_REVERSE", "true")

	v := newTestViper(nil)
	used, err := initConfig(v, "")
	require.NoError(t, err)
	assert.Empty(t, used)

	opts, err := optionsFromViper(v)
	require.NoError(t, err)
	assert.True(t, opts.Filter.Reverse)
}

func TestInitConfigBadFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("long = = true"), 0o644))

	_, err := initConfig(newTestViper(nil), cfg)
	assert.Error(t, err)
}
