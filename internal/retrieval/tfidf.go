// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval ranks document chunks against a query with a
// TF-IDF vector index and assembles the top hits into a prompt context
// block.
package retrieval

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/spo-extractor/pkg/types"
)

// Index is an immutable TF-IDF index over a fixed chunk list. Build it
// once per document pair; queries are read-only and safe to run
// concurrently.
type Index struct {
	chunks  []types.Chunk
	vocab   map[string]int
	idf     []float64
	vectors []map[int]float64
}

// Scored is a chunk with its cosine similarity to a query. Index is
// the chunk's position in the indexed list; unlike the per-page
// Ordinal it is unique across the pair.
type Scored struct {
	Index int
	Chunk types.Chunk
	Score float64
}

// NewIndex builds a TF-IDF index over chunks. The vocabulary keeps at
// most maxVocab terms; when the corpus exceeds the cap, the most
// frequent terms win, ties broken alphabetically so the index is
// deterministic.
func NewIndex(chunks []types.Chunk, maxVocab int) *Index {
	tokenized := make([][]string, len(chunks))
	termFreq := map[string]int{}
	docFreq := map[string]int{}

	for i, c := range chunks {
		tokens := tokenize(c.Text)
		tokenized[i] = tokens

		seen := map[string]struct{}{}
		for _, t := range tokens {
			termFreq[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				docFreq[t]++
			}
		}
	}

	vocab := buildVocabulary(termFreq, maxVocab)

	n := len(chunks)
	idf := make([]float64, len(vocab))
	for term, id := range vocab {
		// Smoothed IDF: never zero, never divides by zero.
		idf[id] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	ix := &Index{
		chunks:  chunks,
		vocab:   vocab,
		idf:     idf,
		vectors: make([]map[int]float64, len(chunks)),
	}
	for i, tokens := range tokenized {
		ix.vectors[i] = ix.vectorize(tokens)
	}
	return ix
}

// TopK returns the k chunks most similar to query, highest first. Only
// strictly positive similarities qualify; fewer than k chunks may come
// back, or none when the query shares no vocabulary with the corpus.
// Ties break on list position, so rankings are stable.
func (ix *Index) TopK(query string, k int) []Scored {
	if k <= 0 {
		return nil
	}

	qvec := ix.vectorize(tokenize(query))
	if len(qvec) == 0 {
		return nil
	}

	var hits []Scored
	for i, dvec := range ix.vectors {
		if score := dot(qvec, dvec); score > 0 {
			hits = append(hits, Scored{Index: i, Chunk: ix.chunks[i], Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Index < hits[j].Index
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// vectorize maps tokens to a L2-normalized sparse TF-IDF vector over
// the index vocabulary. Unknown terms are dropped.
func (ix *Index) vectorize(tokens []string) map[int]float64 {
	counts := map[int]float64{}
	for _, t := range tokens {
		if id, ok := ix.vocab[t]; ok {
			counts[id]++
		}
	}
	if len(counts) == 0 {
		return counts
	}

	var norm float64
	for id, tf := range counts {
		w := tf * ix.idf[id]
		counts[id] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for id := range counts {
		counts[id] /= norm
	}
	return counts
}

// dot computes the sparse dot product, iterating the smaller vector.
func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for id, av := range a {
		if bv, ok := b[id]; ok {
			sum += av * bv
		}
	}
	return sum
}

// buildVocabulary assigns term IDs, keeping the maxVocab most frequent
// terms when the corpus is larger than the cap.
func buildVocabulary(termFreq map[string]int, maxVocab int) map[string]int {
	terms := make([]string, 0, len(termFreq))
	for t := range termFreq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termFreq[terms[i]] != termFreq[terms[j]] {
			return termFreq[terms[i]] > termFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if maxVocab > 0 && len(terms) > maxVocab {
		terms = terms[:maxVocab]
	}

	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}
	return vocab
}

// tokenize lowercases text and splits on non-alphanumeric runes,
// dropping stopwords and single-character tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// AssembleContext renders retrieved chunks as a prompt context block.
// Each chunk is prefixed with a provenance header and chunks are
// separated by a --- line.
func AssembleContext(hits []Scored) string {
	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		parts = append(parts, fmt.Sprintf(
			"[source: %s] [page: %d] [chunk_idx: %d]\n%s",
			h.Chunk.Role, h.Chunk.Page, h.Chunk.Ordinal, h.Chunk.Text,
		))
	}
	return strings.Join(parts, "\n---\n")
}
