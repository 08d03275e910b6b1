package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed filetypes.yml
var defaultFileTypesYAML []byte

// fileTypeTable is the on-disk shape of filetypes.yml.
type fileTypeTable struct {
	Extensions map[string][]string `yaml:"extensions"`
	Filenames  map[string][]string `yaml:"filenames"`
	Suffixes   map[string][]string `yaml:"suffixes"`
}

// FileTypes classifies entries into color categories.
type FileTypes struct {
	extensionMap map[string]string // "png" -> "image"
	filenameMap  map[string]string // "Makefile" -> "immediate"
	suffixes     []suffixRule
}

type suffixRule struct {
	suffix   string
	category string
}

// userFileTypesPath is where a user table overriding the defaults lives.
func userFileTypesPath() string {
	return filepath.Join(xdg.ConfigHome, "lens", "filetypes.yml")
}

// loadFileTypes parses the embedded table and merges the table at userPath
// over it when that file exists. Entries in the user table win.
func loadFileTypes(userPath string) (*FileTypes, error) {
	ft := &FileTypes{
		extensionMap: make(map[string]string),
		filenameMap:  make(map[string]string),
	}
	if err := ft.merge(defaultFileTypesYAML); err != nil {
		return nil, fmt.Errorf("error parsing built-in file types: %w", err)
	}

	if userPath == "" {
		return ft, nil
	}
	data, err := os.ReadFile(userPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ft, nil
		}
		return nil, fmt.Errorf("error reading file types %s: %w", userPath, err)
	}
	if err := ft.merge(data); err != nil {
		return nil, fmt.Errorf("error parsing file types %s: %w", userPath, err)
	}
	return ft, nil
}

func (ft *FileTypes) merge(data []byte) error {
	var table fileTypeTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return err
	}
	for category, exts := range table.Extensions {
		for _, ext := range exts {
			ft.extensionMap[strings.ToLower(strings.TrimPrefix(ext, "."))] = category
		}
	}
	for category, names := range table.Filenames {
		for _, name := range names {
			ft.filenameMap[name] = category
		}
	}
	for category, sfx := range table.Suffixes {
		for _, s := range sfx {
			ft.suffixes = append([]suffixRule{{suffix: s, category: category}}, ft.suffixes...)
		}
	}
	return nil
}

// Classify returns the category of f, or "" for an ordinary file.
// Directories, symlinks and executables are categories of their own and
// take precedence over the name-based table.
func (ft *FileTypes) Classify(f *File) string {
	switch {
	case f.IsLink:
		return "symlink"
	case f.IsDir:
		return "directory"
	}

	base := filepath.Base(f.Path)
	if ft != nil {
		if category, ok := ft.filenameMap[base]; ok {
			return category
		}
		for _, rule := range ft.suffixes {
			if strings.HasSuffix(base, rule.suffix) {
				return rule.category
			}
		}
		if ext := f.Ext(); ext != "" {
			if category, ok := ft.extensionMap[ext]; ok {
				return category
			}
		}
	}

	if f.IsExecutable() {
		return "executable"
	}
	return ""
}
