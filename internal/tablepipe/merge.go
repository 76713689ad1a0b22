// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tablepipe extracts tabular data from a document pair: it
// collects the pages whose layout looks tabular, merges them into one
// labeled PDF, OCRs that PDF, and runs the table extraction task over
// the OCR text.
package tablepipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/spo-extractor/internal/pdfio"
)

// ErrNoTables reports that neither document has a tabular page. The
// table path is skipped, not failed, when this comes back.
var ErrNoTables = errors.New("no table pages detected in either document")

// Section labels stamped on the divider pages of the merged PDF, so
// the OCR text keeps document provenance.
const (
	frameworkLabel = "Framework PDF"
	spoLabel       = "Second Party Opinion / SPO"
)

// TablePages returns the 1-based page numbers flagged as tabular.
func TablePages(pages []pdfio.Page) []int {
	var nums []int
	for i, p := range pages {
		if p.HasTable {
			nums = append(nums, i+1)
		}
	}
	return nums
}

// BuildMergedPDF assembles the table pages of both documents into one
// PDF at outPath. Each document's pages are preceded by a labeled
// divider page. Intermediate files live in a temp directory that is
// always removed. Returns ErrNoTables when there is nothing to merge.
func BuildMergedPDF(frameworkPath, spoPath string, frameworkPages, spoPages []pdfio.Page, outPath string) error {
	fwTables := TablePages(frameworkPages)
	spoTables := TablePages(spoPages)
	if len(fwTables) == 0 && len(spoTables) == 0 {
		return ErrNoTables
	}

	tmpDir, err := os.MkdirTemp("", "tablepipe-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var parts []string

	addSection := func(label, srcPath string, pages []int, stem string) error {
		if len(pages) == 0 {
			return nil
		}

		labelPath := filepath.Join(tmpDir, stem+"-label.pdf")
		if err := writeLabelPage(labelPath, label); err != nil {
			return err
		}

		trimPath := filepath.Join(tmpDir, stem+"-tables.pdf")
		if err := api.TrimFile(srcPath, trimPath, pageSelection(pages), nil); err != nil {
			return fmt.Errorf("trimming table pages from %s: %w", srcPath, err)
		}

		parts = append(parts, labelPath, trimPath)
		return nil
	}

	if err := addSection(frameworkLabel, frameworkPath, fwTables, "framework"); err != nil {
		return err
	}
	if err := addSection(spoLabel, spoPath, spoTables, "spo"); err != nil {
		return err
	}

	if err := api.MergeCreateFile(parts, outPath, false, nil); err != nil {
		return fmt.Errorf("merging table pages: %w", err)
	}
	return nil
}

// writeLabelPage renders a single-page PDF carrying only the section
// label.
func writeLabelPage(path, label string) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 40, label, "", 1, "C", false, 0, "")
	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing label page %q: %w", label, err)
	}
	return nil
}

// pageSelection renders page numbers in the form the PDF toolkit
// expects.
func pageSelection(pages []int) []string {
	sel := make([]string, len(pages))
	for i, p := range pages {
		sel[i] = strconv.Itoa(p)
	}
	return sel
}
