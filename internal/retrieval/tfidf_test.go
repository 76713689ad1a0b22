// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/spo-extractor/pkg/types"
)

func corpus(texts ...string) []types.Chunk {
	chunks := make([]types.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = types.Chunk{
			Text:    t,
			Role:    types.RoleFramework,
			Page:    i + 1,
			Ordinal: 1,
		}
	}
	return chunks
}

func TestTopKRanksRelevantChunksFirst(t *testing.T) {
	chunks := corpus(
		"green bonds finance renewable energy projects including solar power",
		"governance structures and board oversight committees",
		"solar power installations and renewable generation capacity",
	)
	ix := NewIndex(chunks, 20000)

	hits := ix.TopK("renewable solar energy", 2)

	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	for _, h := range hits {
		if h.Index == 1 {
			t.Error("governance chunk ranked in top 2 for a solar query")
		}
	}
	if hits[0].Score < hits[1].Score {
		t.Error("hits not in descending score order")
	}
}

func TestTopKPositiveSimilarityOnly(t *testing.T) {
	chunks := corpus(
		"proceeds allocated to eligible green categories",
		"completely unrelated musical composition notation",
	)
	ix := NewIndex(chunks, 20000)

	hits := ix.TopK("eligible proceeds categories", 6)

	for _, h := range hits {
		if h.Score <= 0 {
			t.Errorf("hit with non-positive score %f", h.Score)
		}
		if h.Index == 1 {
			t.Error("zero-overlap chunk returned")
		}
	}
}

func TestTopKUnknownQuery(t *testing.T) {
	ix := NewIndex(corpus("alpha beta gamma"), 20000)

	if hits := ix.TopK("zzzz qqqq", 6); len(hits) != 0 {
		t.Errorf("got %d hits for vocabulary-free query, want 0", len(hits))
	}
	if hits := ix.TopK("", 6); len(hits) != 0 {
		t.Errorf("got %d hits for empty query, want 0", len(hits))
	}
}

func TestTopKDeterministic(t *testing.T) {
	chunks := corpus(
		"climate transition strategy report",
		"climate transition strategy report",
		"climate transition strategy report",
	)
	ix := NewIndex(chunks, 20000)

	first := ix.TopK("climate strategy", 2)
	for i := 0; i < 10; i++ {
		again := ix.TopK("climate strategy", 2)
		for j := range first {
			if first[j].Index != again[j].Index {
				t.Fatalf("run %d: ordering changed at position %d", i, j)
			}
		}
	}
	// Identical scores fall back to list order.
	if first[0].Index != 0 || first[1].Index != 1 {
		t.Errorf("tie-break indices = %d, %d", first[0].Index, first[1].Index)
	}
}

func TestVocabularyCap(t *testing.T) {
	texts := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		// "common" appears everywhere; rare terms appear once each.
		texts = append(texts, fmt.Sprintf("common term%04d", i))
	}
	ix := NewIndex(corpus(texts...), 5)

	if got := len(ix.vocab); got != 5 {
		t.Fatalf("vocabulary size = %d, want 5", got)
	}
	if _, ok := ix.vocab["common"]; !ok {
		t.Error("most frequent term evicted from capped vocabulary")
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("The Green-Bond framework, issued in 2024!")
	want := []string{"green", "bond", "framework", "issued", "2024"}

	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAssembleContext(t *testing.T) {
	hits := []Scored{
		{Chunk: types.Chunk{Text: "first chunk", Role: types.RoleFramework, Page: 2, Ordinal: 4}, Score: 0.9},
		{Chunk: types.Chunk{Text: "second chunk", Role: types.RoleSPO, Page: 1, Ordinal: 7}, Score: 0.5},
	}

	got := AssembleContext(hits)

	if !strings.Contains(got, "[source: framework] [page: 2] [chunk_idx: 4]\nfirst chunk") {
		t.Errorf("missing framework header:\n%s", got)
	}
	if !strings.Contains(got, "[source: spo] [page: 1] [chunk_idx: 7]\nsecond chunk") {
		t.Errorf("missing spo header:\n%s", got)
	}
	if strings.Count(got, "\n---\n") != 1 {
		t.Errorf("separator count wrong:\n%s", got)
	}
	if AssembleContext(nil) != "" {
		t.Error("empty hits should produce empty context")
	}
}
