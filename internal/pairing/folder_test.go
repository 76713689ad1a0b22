// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pairing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindFolderPairStrict(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "GreenCo_Framework.pdf", "GreenCo_SPO.pdf", "notes.txt")

	fw, spo, err := FindFolderPair(dir)
	if err != nil {
		t.Fatalf("FindFolderPair: %v", err)
	}
	if !strings.HasSuffix(fw, "GreenCo_Framework.pdf") {
		t.Errorf("framework = %q", fw)
	}
	if !strings.HasSuffix(spo, "GreenCo_SPO.pdf") {
		t.Errorf("spo = %q", spo)
	}
}

func TestFindFolderPairSecondPartyOpinionWord(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bond_framework.pdf", "second-party-opinion.pdf")

	fw, spo, err := FindFolderPair(dir)
	if err != nil {
		t.Fatalf("FindFolderPair: %v", err)
	}
	if !strings.HasSuffix(fw, "bond_framework.pdf") || !strings.HasSuffix(spo, "second-party-opinion.pdf") {
		t.Errorf("got (%q, %q)", fw, spo)
	}
}

func TestFindFolderPairTwoPDFFallback(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "alpha.pdf", "beta.pdf")

	fw, spo, err := FindFolderPair(dir)
	if err != nil {
		t.Fatalf("FindFolderPair: %v", err)
	}
	// Directory order: alpha before beta.
	if !strings.HasSuffix(fw, "alpha.pdf") {
		t.Errorf("framework = %q, want alpha.pdf", fw)
	}
	if !strings.HasSuffix(spo, "beta.pdf") {
		t.Errorf("spo = %q, want beta.pdf", spo)
	}
}

func TestFindFolderPairNoPair(t *testing.T) {
	tests := []struct {
		name  string
		files []string
	}{
		{"empty folder", nil},
		{"single pdf", []string{"only.pdf"}},
		{"three ambiguous pdfs", []string{"a.pdf", "b.pdf", "c.pdf"}},
		{"non-pdf files only", []string{"framework.docx", "spo.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, tt.files...)

			_, _, err := FindFolderPair(dir)
			var noPair *ErrNoFolderPair
			if !errors.As(err, &noPair) {
				t.Fatalf("err = %v, want ErrNoFolderPair", err)
			}
		})
	}
}

func TestFindFolderPairFrameworkOnlyWithTwoPDFs(t *testing.T) {
	// Strict rule finds a framework but no SPO; the two-PDF fallback
	// still applies.
	dir := t.TempDir()
	touch(t, dir, "acme_framework.pdf", "review_document.pdf")

	fw, spo, err := FindFolderPair(dir)
	if err != nil {
		t.Fatalf("FindFolderPair: %v", err)
	}
	if !strings.HasSuffix(fw, "acme_framework.pdf") {
		t.Errorf("framework = %q", fw)
	}
	if !strings.HasSuffix(spo, "review_document.pdf") {
		t.Errorf("spo = %q", spo)
	}
}

func TestFindFolderPairMissingDir(t *testing.T) {
	_, _, err := FindFolderPair(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
