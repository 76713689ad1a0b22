// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfio

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

// run builds a positioned text fragment at x with width w.
func run(x, w float64) pdf.Text {
	return pdf.Text{X: x, W: w, S: "x"}
}

func TestCountCells(t *testing.T) {
	tests := []struct {
		name  string
		texts pdf.TextHorizontal
		want  int
	}{
		{
			name:  "empty row",
			texts: nil,
			want:  0,
		},
		{
			name:  "single run",
			texts: pdf.TextHorizontal{run(10, 50)},
			want:  1,
		},
		{
			name: "adjacent runs are one cell",
			texts: pdf.TextHorizontal{
				run(10, 50),
				run(62, 40), // 2pt gap
			},
			want: 1,
		},
		{
			name: "wide gaps split cells",
			texts: pdf.TextHorizontal{
				run(10, 50),
				run(100, 50),
				run(200, 50),
			},
			want: 3,
		},
		{
			name: "gap exactly at threshold stays joined",
			texts: pdf.TextHorizontal{
				run(10, 50),
				run(72, 50), // gap == cellGap
			},
			want: 1,
		},
		{
			name: "overlapping run does not reset the edge",
			texts: pdf.TextHorizontal{
				run(10, 100),
				run(40, 10), // inside the first run
				run(130, 50),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countCells(tt.texts); got != tt.want {
				t.Errorf("countCells = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHasTabularLayout(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   bool
	}{
		{"empty page", nil, false},
		{"prose page", []int{1, 1, 1, 1, 1}, false},
		{"two tabular rows is not enough", []int{3, 3, 1, 1}, false},
		{"three tabular rows", []int{3, 4, 3}, true},
		{"tabular rows need not be adjacent", []int{3, 1, 4, 1, 5}, true},
		{"two-column layout is not a table", []int{2, 2, 2, 2, 2, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasTabularLayout(tt.counts); got != tt.want {
				t.Errorf("hasTabularLayout(%v) = %v, want %v", tt.counts, got, tt.want)
			}
		})
	}
}

func TestExtractPagesMissingFile(t *testing.T) {
	r := NewLayoutReader()
	if _, err := r.ExtractPages("does-not-exist.pdf"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
