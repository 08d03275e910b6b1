package main

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10 // mm
	pdfLineHeight = 4.5
	pdfFontSize   = 9
	pdfTabWidth   = 4
)

// The core PDF fonts are cp1252, which has no box-drawing characters.
var pdfReplacer = strings.NewReplacer(
	"├── ", "|-- ",
	"└── ", "`-- ",
	"│   ", "|   ",
	"\t", strings.Repeat(" ", pdfTabWidth),
)

// writeListingPDF writes a plain-text listing to an A4 PDF in a monospaced
// font, one listing line per PDF line.
func writeListingPDF(path, text string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()
	pdf.SetFont("Courier", "", pdfFontSize)
	pdf.SetTextColor(0, 0, 0)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width, _ := pdf.GetPageSize()
	text = pdfReplacer.Replace(strings.TrimRight(text, "\n"))
	for _, line := range strings.Split(text, "\n") {
		pdf.MultiCell(width-2*pdfMargin, pdfLineHeight, tr(line), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", path, err)
	}
	return nil
}
