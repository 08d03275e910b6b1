package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
)

type sinkKind int

const (
	sinkStdout sinkKind = iota
	sinkClipboard
	sinkPDF
)

// outputSink is where the listing goes. Stdout is written through; the
// clipboard and PDF sinks collect the whole listing and deliver it on Close.
type outputSink struct {
	kind    sinkKind
	stdout  io.Writer
	buf     bytes.Buffer
	pdfPath string
	log     *ConsoleLogger

	copyText func(string) error
	writePDF func(path, text string) error
}

func newOutputSink(opts *Options, stdout io.Writer, log *ConsoleLogger) *outputSink {
	s := &outputSink{
		kind:     sinkStdout,
		stdout:   stdout,
		log:      log,
		copyText: clipboard.WriteAll,
		writePDF: writeListingPDF,
	}
	switch {
	case opts.PDFFile != "":
		s.kind = sinkPDF
		s.pdfPath = opts.PDFFile
	case opts.Clipboard:
		s.kind = sinkClipboard
	}
	return s
}

// buffered reports whether output is held back rather than shown, in which
// case colors and terminal sizing must not be used.
func (s *outputSink) buffered() bool {
	return s.kind != sinkStdout
}

func (s *outputSink) Write(p []byte) (int, error) {
	if s.kind == sinkStdout {
		return s.stdout.Write(p)
	}
	return s.buf.Write(p)
}

// Close delivers a buffered listing. If the clipboard is unavailable the
// listing is printed instead, so it is never lost.
func (s *outputSink) Close() error {
	switch s.kind {
	case sinkClipboard:
		if err := s.copyText(s.buf.String()); err != nil {
			s.log.Warnf("could not write to clipboard: %v", err)
			_, werr := io.Copy(s.stdout, &s.buf)
			return werr
		}
		s.log.Infof("listing copied to clipboard (%d bytes)", s.buf.Len())
	case sinkPDF:
		if err := s.writePDF(s.pdfPath, s.buf.String()); err != nil {
			return fmt.Errorf("writing PDF: %w", err)
		}
		s.log.Infof("listing saved to %s", s.pdfPath)
	}
	return nil
}
