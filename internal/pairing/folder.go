// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pairing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// folderSPOWords mark a filename as an SPO document under the
// folder-scoped rule. Slightly wider than the matcher's list.
var folderSPOWords = []string{"spo", "spoc", "second", "second-party-opinion"}

// ErrNoFolderPair reports that a folder held no recognizable pair.
type ErrNoFolderPair struct {
	Dir string
}

func (e *ErrNoFolderPair) Error() string {
	return fmt.Sprintf("no framework/SPO pair found in %s", e.Dir)
}

// FindFolderPair locates the framework and SPO PDFs inside one company
// folder. A framework file must contain "framework" and none of the SPO
// words; an SPO file must contain one of the SPO words. When the strict
// rule finds no pair but the folder holds exactly two PDFs, those two
// are assumed to be the pair, in directory order.
func FindFolderPair(dir string) (framework, spo string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", fmt.Errorf("reading folder %s: %w", dir, err)
	}

	var pdfs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if !strings.HasSuffix(name, ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		pdfs = append(pdfs, path)

		if strings.Contains(name, "framework") && !containsAny(name, folderSPOWords) {
			framework = path
		} else if containsAny(name, folderSPOWords) {
			spo = path
		}
	}

	if framework != "" && spo != "" {
		return framework, spo, nil
	}

	// Fallback: exactly two PDFs are assumed to be the pair.
	if len(pdfs) == 2 {
		return pdfs[0], pdfs[1], nil
	}

	return "", "", &ErrNoFolderPair{Dir: dir}
}
