package main

import (
	"errors"
	"fmt"
	"io/fs"
)

// errInaccessible is returned by a listing that completed but could not
// access one or more of its targets. The individual failures have already
// been printed by the time it is returned.
var errInaccessible = errors.New("one or more paths could not be accessed")

// ProbeError records a target that could not be resolved. It is reported
// and counted, and never stops sibling probes.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string { return e.Path + ": " + reason(e.Err) }
func (e *ProbeError) Unwrap() error { return e.Err }

// DirReadError aborts the directory traversal.
type DirReadError struct {
	Path string
	Err  error
}

func (e *DirReadError) Error() string { return e.Path + ": " + reason(e.Err) }
func (e *DirReadError) Unwrap() error { return e.Err }

// OptionsError reports a flag or config value that cannot be used.
type OptionsError struct {
	Key    string
	Value  any
	Reason string
}

func (e *OptionsError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid option %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("invalid option %s=%v: %s", e.Key, e.Value, e.Reason)
}

// reason strips the operation and path from a *fs.PathError so that
// messages read "path: no such file or directory" rather than repeating
// the path.
func reason(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
