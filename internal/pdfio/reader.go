// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfio reads PDF documents page by page with pluggable backends.
// Each page yields its plain text and whether the page layout looks
// tabular; downstream stages never touch the PDF format directly.
package pdfio

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Page is one document page: its extracted text (empty when the page has
// no extractable text, never absent) and a table-layout flag.
type Page struct {
	Text     string
	HasTable bool
}

// Reader extracts pages from a PDF document. Implementations wrap a
// concrete PDF library or an external tool.
type Reader interface {
	// ExtractPages returns one Page per document page, in order.
	ExtractPages(path string) ([]Page, error)
}

// LayoutReader reads PDFs with the ledongthuc/pdf library and flags
// tabular pages from the positioned-text layout.
type LayoutReader struct{}

// NewLayoutReader returns the default PDF reader.
func NewLayoutReader() *LayoutReader {
	return &LayoutReader{}
}

// ExtractPages reads every page of the PDF at path. A page whose text
// cannot be decoded contributes an empty-text entry rather than an
// error; only failure to open or parse the document itself aborts.
func (r *LayoutReader) ExtractPages(path string) ([]Page, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	total := doc.NumPage()
	pages := make([]Page, 0, total)

	for i := 1; i <= total; i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			pages = append(pages, Page{})
			continue
		}

		var page Page
		if text, err := p.GetPlainText(nil); err == nil {
			page.Text = text
		}

		if rows, err := p.GetTextByRow(); err == nil {
			page.HasTable = hasTabularLayout(cellCounts(rows))
		}

		pages = append(pages, page)
	}

	return pages, nil
}

// cellGap is the horizontal whitespace, in PDF points, that separates
// two text runs into distinct cells.
const cellGap = 12.0

// minTableCells is the cell count that makes a row look tabular, and
// minTableRows is how many such rows a page needs before it is flagged.
const (
	minTableCells = 3
	minTableRows  = 3
)

// cellCounts reduces positioned text rows to a per-row count of
// gap-separated cell clusters.
func cellCounts(rows pdf.Rows) []int {
	counts := make([]int, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, countCells(row.Content))
	}
	return counts
}

// countCells clusters a row's text runs into cells. Runs are already
// ordered by X; a new cell starts where the gap from the previous run's
// right edge exceeds cellGap.
func countCells(texts pdf.TextHorizontal) int {
	if len(texts) == 0 {
		return 0
	}

	cells := 1
	rightEdge := texts[0].X + texts[0].W
	for _, t := range texts[1:] {
		if t.X-rightEdge > cellGap {
			cells++
		}
		if edge := t.X + t.W; edge > rightEdge {
			rightEdge = edge
		}
	}
	return cells
}

// hasTabularLayout reports whether the per-row cell counts describe a
// page with at least one table region: minTableRows rows each holding
// minTableCells or more cells.
func hasTabularLayout(counts []int) bool {
	tabular := 0
	for _, c := range counts {
		if c >= minTableCells {
			tabular++
			if tabular >= minTableRows {
				return true
			}
		}
	}
	return false
}
