// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunker splits page text into fixed-size overlapping windows
// for retrieval indexing.
package chunker

import (
	"strings"

	"github.com/pdiddy/spo-extractor/internal/pdfio"
	"github.com/pdiddy/spo-extractor/pkg/types"
)

// ChunkText slices text into windows of size characters advancing by
// size-overlap, so consecutive chunks share overlap characters. The
// final chunk may be shorter. Each window is trimmed of surrounding
// whitespace; windows that trim to nothing are dropped, so empty or
// all-whitespace text produces no chunks. Size and overlap must
// satisfy types.ChunkingConfig.Validate; the window is measured in
// runes so multi-byte text never splits mid-character.
func ChunkText(text string, size, overlap int) []string {
	if text == "" || size <= 0 || overlap >= size {
		return nil
	}

	runes := []rune(text)
	step := size - overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := min(start+size, len(runes))
		if window := strings.TrimSpace(string(runes[start:end])); window != "" {
			chunks = append(chunks, window)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// BuildPair chunks both documents of a pair into one ordered list. The
// framework's pages come first, then the SPO's; every chunk carries its
// source role, 1-based page number, 1-based position on its page, and
// the group label. Pages without extractable text contribute nothing.
func BuildPair(framework, spo []pdfio.Page, cfg types.ChunkingConfig, group string) []types.Chunk {
	var chunks []types.Chunk

	appendPages := func(pages []pdfio.Page, role types.DocumentRole) {
		for i, page := range pages {
			for j, text := range ChunkText(page.Text, cfg.ChunkSize, cfg.Overlap) {
				chunks = append(chunks, types.Chunk{
					Text:    text,
					Role:    role,
					Page:    i + 1,
					Ordinal: j + 1,
					Group:   group,
				})
			}
		}
	}

	appendPages(framework, types.RoleFramework)
	appendPages(spo, types.RoleSPO)

	return chunks
}
