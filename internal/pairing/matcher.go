// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pairing groups uploaded PDF files into (framework, SPO) pairs.
//
// Two independent policies exist: Pair, a similarity matcher for an
// arbitrary flat set of files, and FindFolderPair, a stricter per-folder
// rule used by the filesystem batch path. They intentionally stay
// separate; the folder rule must not inherit the fuzzy matching.
package pairing

import (
	"strings"

	"github.com/agext/levenshtein"
)

// scoreThreshold is the minimum combined score for a framework/SPO
// assignment. Below it the files stay unmatched.
const scoreThreshold = 0.4

// prefixBonus is added to the similarity ratio when two filenames share
// a leading substring longer than minPrefixLen characters.
const (
	prefixBonus  = 0.5
	minPrefixLen = 3
)

// File is an uploaded document identified by its filename.
type File struct {
	// Name is the filename used for bucketing and similarity scoring.
	Name string

	// Path is where the file content lives on disk.
	Path string
}

// Match is one resolved (framework, SPO) pair.
type Match struct {
	// Name is the display label: the common filename prefix with
	// separator characters trimmed. May be empty when the names share
	// no prefix; callers supply a fallback label.
	Name string

	// Framework and SPO are the paired files.
	Framework File
	SPO       File

	// Score is the similarity score that produced the assignment.
	Score float64
}

// spoWords mark a filename as a second party opinion document.
var spoWords = []string{"spo", "second", "opinion"}

// Pair buckets files by filename keywords and assigns each framework to
// the most similar unused SPO file. Files that fail the threshold, and
// SPO files left unassigned, are returned as unmatched. The result is
// deterministic for a fixed input order and has no side effects.
func Pair(files []File) (pairs []Match, unmatched []File) {
	var frameworks, spos []File

	for _, f := range files {
		name := strings.ToLower(f.Name)
		switch {
		case strings.Contains(name, "framework") && !containsAny(name, spoWords):
			frameworks = append(frameworks, f)
		case containsAny(name, spoWords):
			spos = append(spos, f)
		default:
			unmatched = append(unmatched, f)
		}
	}

	used := make([]bool, len(spos))

	for _, fw := range frameworks {
		bestIdx := -1
		bestScore := 0.0

		for i, spo := range spos {
			if used[i] {
				continue
			}
			score := pairScore(fw.Name, spo.Name)
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		if bestIdx >= 0 && bestScore > scoreThreshold {
			used[bestIdx] = true
			pairs = append(pairs, Match{
				Name:      DisplayName(fw.Name, spos[bestIdx].Name),
				Framework: fw,
				SPO:       spos[bestIdx],
				Score:     bestScore,
			})
		} else {
			unmatched = append(unmatched, fw)
		}
	}

	for i, spo := range spos {
		if !used[i] {
			unmatched = append(unmatched, spo)
		}
	}

	return pairs, unmatched
}

// pairScore combines the normalized edit-distance similarity of the
// lowercased filenames with the shared-prefix bonus.
func pairScore(fwName, spoName string) float64 {
	a := strings.ToLower(fwName)
	b := strings.ToLower(spoName)

	score := levenshtein.Similarity(a, b, nil)
	if len(commonPrefix(a, b)) > minPrefixLen {
		score += prefixBonus
	}
	return score
}

// DisplayName derives a pair label from the longest common leading
// substring of the two filenames, trimming separator characters from
// both ends. Empty when the names diverge immediately.
func DisplayName(a, b string) string {
	return strings.Trim(commonPrefix(a, b), "-_ ")
}

// commonPrefix returns the longest common leading substring of a and b.
func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
