package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Viper keys. Flags use the same names with dashes.
const (
	keyOneline     = "oneline"
	keyLong        = "long"
	keyGrid        = "grid"
	keyRecurse     = "recurse"
	keyTree        = "tree"
	keyLevel       = "level"
	keyListDirs    = "list_dirs"
	keyAll         = "all"
	keySort        = "sort"
	keyReverse     = "reverse"
	keyDirsFirst   = "group_directories_first"
	keyIgnoreGlob  = "ignore_glob"
	keyGitIgnore   = "git_ignore"
	keyGit         = "git"
	keyBinary      = "binary"
	keyBytes       = "bytes"
	keyHeader      = "header"
	keyColor       = "color"
	keyThreads     = "threads"
	keyClipboard   = "clipboard"
	keyPDF         = "pdf"
	keyInteractive = "interactive"
	keyLogLevel    = "log_level"
)

// DirAction says what happens to directories named on the command line.
type DirAction int

const (
	DirList    DirAction = iota // list their contents
	DirAsFile                   // show them as plain entries
	DirRecurse                  // list their contents and their subdirectories'
)

// RecurseOptions apply when DirAction is DirRecurse.
type RecurseOptions struct {
	Tree     bool
	MaxDepth int // 0 means unlimited
}

// isTooDeep reports whether a directory at depth may not push its children.
// Children of a directory at depth d sit at depth d+1, so stopping at
// MaxDepth keeps every expanded directory at or above MaxDepth.
func (r RecurseOptions) isTooDeep(depth int) bool {
	return r.MaxDepth > 0 && depth >= r.MaxDepth
}

type ViewMode int

const (
	ViewGrid ViewMode = iota
	ViewDetails
	ViewLines
)

type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

type SizeFormat int

const (
	SizeDecimal SizeFormat = iota
	SizeBinary
	SizeBytes
)

// Options is the validated configuration for one listing.
type Options struct {
	DirAction   DirAction
	Recurse     RecurseOptions
	View        ViewMode
	GridForced  bool
	Filter      FileFilter
	Header      bool
	Git         bool
	Sizes       SizeFormat
	Color       ColorMode
	Threads     int
	Clipboard   bool
	PDFFile     string
	Interactive bool
	LogLevel    string
}

// dirsAsFiles reports whether directory targets are rendered as single
// entries rather than pushed for expansion.
func (o *Options) dirsAsFiles() bool {
	return o.DirAction == DirAsFile || o.isTree()
}

func (o *Options) isTree() bool {
	return o.DirAction == DirRecurse && o.Recurse.Tree
}

// setDefaults registers the defaults that are not carried by flag
// definitions, so that a config file alone is enough to drive a listing.
func setDefaults(v *viper.Viper) {
	v.SetDefault(keySort, "name")
	v.SetDefault(keyColor, "auto")
	v.SetDefault(keyThreads, 0)
	v.SetDefault(keyLevel, 0)
	v.SetDefault(keyLogLevel, "warn")
}

// initConfig reads the config file and environment into v. It returns the
// config file used, or "" when none was found.
func initConfig(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Search $XDG_CONFIG_HOME/lens, then the current directory.
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "lens"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix("LENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", err
	}
	return v.ConfigFileUsed(), nil
}

// optionsFromViper builds and validates Options from the merged defaults,
// config file, environment and flags.
func optionsFromViper(v *viper.Viper) (*Options, error) {
	opts := &Options{
		Threads:     v.GetInt(keyThreads),
		Clipboard:   v.GetBool(keyClipboard),
		PDFFile:     v.GetString(keyPDF),
		Interactive: v.GetBool(keyInteractive),
		LogLevel:    normalizeLogLevel(v.GetString(keyLogLevel)),
		Header:      v.GetBool(keyHeader),
		Git:         v.GetBool(keyGit),
	}

	if opts.Threads < 0 {
		return nil, &OptionsError{Key: keyThreads, Value: opts.Threads, Reason: "must not be negative"}
	}
	if opts.Clipboard && opts.PDFFile != "" {
		return nil, &OptionsError{Key: keyClipboard, Reason: "cannot be combined with --pdf"}
	}

	// View
	switch {
	case v.GetBool(keyLong):
		opts.View = ViewDetails
	case v.GetBool(keyOneline):
		opts.View = ViewLines
	default:
		opts.View = ViewGrid
		opts.GridForced = v.GetBool(keyGrid)
	}
	if v.GetBool(keyLong) && v.GetBool(keyOneline) {
		return nil, &OptionsError{Key: keyOneline, Reason: "cannot be combined with --long"}
	}
	if opts.View != ViewDetails {
		if opts.Header {
			return nil, &OptionsError{Key: keyHeader, Reason: "only applies to --long"}
		}
		if opts.Git {
			return nil, &OptionsError{Key: keyGit, Reason: "only applies to --long"}
		}
	}

	// Directory handling
	recurse, tree, listDirs := v.GetBool(keyRecurse), v.GetBool(keyTree), v.GetBool(keyListDirs)
	level := v.GetInt(keyLevel)
	if level < 0 {
		return nil, &OptionsError{Key: keyLevel, Value: level, Reason: "must not be negative"}
	}
	switch {
	case listDirs && (recurse || tree):
		return nil, &OptionsError{Key: keyListDirs, Reason: "cannot be combined with --recurse or --tree"}
	case listDirs:
		opts.DirAction = DirAsFile
	case recurse || tree:
		opts.DirAction = DirRecurse
		opts.Recurse = RecurseOptions{Tree: tree, MaxDepth: level}
	default:
		opts.DirAction = DirList
	}
	if level > 0 && opts.DirAction != DirRecurse {
		return nil, &OptionsError{Key: keyLevel, Value: level, Reason: "requires --recurse or --tree"}
	}

	// Sizes
	switch {
	case v.GetBool(keyBinary) && v.GetBool(keyBytes):
		return nil, &OptionsError{Key: keyBinary, Reason: "cannot be combined with --bytes"}
	case v.GetBool(keyBinary):
		opts.Sizes = SizeBinary
	case v.GetBool(keyBytes):
		opts.Sizes = SizeBytes
	}

	// Colors
	switch strings.ToLower(strings.TrimSpace(v.GetString(keyColor))) {
	case "", "auto", "automatic":
		opts.Color = ColorAuto
	case "always":
		opts.Color = ColorAlways
	case "never":
		opts.Color = ColorNever
	default:
		return nil, &OptionsError{Key: keyColor, Value: v.GetString(keyColor), Reason: "expected auto, always or never"}
	}

	// Sorting and filtering
	field, err := parseSortField(v.GetString(keySort))
	if err != nil {
		return nil, err
	}
	opts.Filter = FileFilter{
		ShowHidden:  v.GetBool(keyAll),
		SortField:   field,
		Reverse:     v.GetBool(keyReverse),
		DirsFirst:   v.GetBool(keyDirsFirst),
		IgnoreGlobs: parsePatterns(v.GetString(keyIgnoreGlob)),
		GitIgnore:   v.GetBool(keyGitIgnore),
	}
	if err := opts.Filter.validate(); err != nil {
		return nil, err
	}

	return opts, nil
}
