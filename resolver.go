package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// defaultThreads is the probe concurrency ceiling used when none is
// configured.
func defaultThreads() int {
	return 8 * runtime.NumCPU()
}

type outcomeKind int

const (
	outcomeFile outcomeKind = iota
	outcomeDir
	outcomeFailure
)

// probeOutcome is the result of probing one target. Exactly one is produced
// per target.
type probeOutcome struct {
	index int
	kind  outcomeKind
	file  *File  // outcomeFile
	path  string // outcomeDir
	err   error  // outcomeFailure, always a *ProbeError
}

// probe stats a single target and classifies it. A directory becomes a
// pending directory unless dirsAsFiles is set, in which case it is rendered
// as a single entry.
func probe(fsys FileSystem, index int, target string, dirsAsFiles bool) probeOutcome {
	info, err := fsys.Stat(target)
	if err != nil {
		return probeOutcome{index: index, kind: outcomeFailure, err: &ProbeError{Path: target, Err: err}}
	}
	if !info.IsDir() {
		return probeOutcome{index: index, kind: outcomeFile, file: newStandaloneFile(fsys, target, info)}
	}
	if dirsAsFiles {
		f := newStandaloneFile(fsys, target, info)
		f.AsFile = true
		return probeOutcome{index: index, kind: outcomeFile, file: f}
	}
	return probeOutcome{index: index, kind: outcomeDir, path: target}
}

// Resolution holds the classified targets. Files and Dirs are in input
// order, not the order the probes happened to finish in, so repeated runs
// over the same targets list identically. Failures are still printed in
// arrival order. Count is the number of outcomes received and always
// equals the number of targets.
type Resolution struct {
	Files    []*File
	Dirs     []string
	Failures []error
	Count    int
}

// Resolver probes targets concurrently, admitting at most threads probes at
// a time, and funnels their outcomes through a single aggregator.
type Resolver struct {
	fsys        FileSystem
	threads     int
	dirsAsFiles bool
	errOut      io.Writer
}

func newResolver(fsys FileSystem, threads int, dirsAsFiles bool, errOut io.Writer) *Resolver {
	if threads <= 0 {
		threads = defaultThreads()
	}
	return &Resolver{
		fsys:        fsys,
		threads:     threads,
		dirsAsFiles: dirsAsFiles,
		errOut:      errOut,
	}
}

// Resolve probes every target and returns once all of them are accounted
// for. Failures are printed as they arrive and do not stop other probes.
func (r *Resolver) Resolve(targets []string) *Resolution {
	n := len(targets)
	res := &Resolution{}
	if n == 0 {
		return res
	}

	gate := semaphore.NewWeighted(int64(r.threads))
	results := make(chan probeOutcome)
	done := make(chan struct{})
	var wg sync.WaitGroup

	// Aggregator: the only goroutine that touches res. Outcomes land in
	// their input slot so that arrival order does not leak into the output.
	go func() {
		defer close(done)
		slots := make([]probeOutcome, n)
		for i := 0; i < n; i++ {
			out := <-results
			if out.kind == outcomeFailure {
				fmt.Fprintln(r.errOut, out.err)
			}
			slots[out.index] = out
			res.Count++
		}
		for _, out := range slots {
			switch out.kind {
			case outcomeFile:
				res.Files = append(res.Files, out.file)
			case outcomeDir:
				res.Dirs = append(res.Dirs, out.path)
			case outcomeFailure:
				res.Failures = append(res.Failures, out.err)
			}
		}
	}()

	for i, target := range targets {
		// Blocks while the ceiling is saturated. With a background context
		// Acquire cannot fail; if it ever did the aggregator would wait
		// forever for an outcome that is never sent.
		if err := gate.Acquire(context.Background(), 1); err != nil {
			panic(fmt.Sprintf("resolver: admission gate: %v", err))
		}
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			defer gate.Release(1)
			results <- probe(r.fsys, i, target, r.dirsAsFiles)
		}(i, target)
	}

	wg.Wait()
	<-done
	return res
}
