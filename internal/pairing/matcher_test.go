// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pairing

import (
	"testing"
)

func TestPairAcmeExample(t *testing.T) {
	files := []File{
		{Name: "Acme_Framework.pdf", Path: "/tmp/Acme_Framework.pdf"},
		{Name: "Acme_SPO.pdf", Path: "/tmp/Acme_SPO.pdf"},
	}

	pairs, unmatched := Pair(files)

	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1 (unmatched: %d)", len(pairs), len(unmatched))
	}
	p := pairs[0]
	if p.Framework.Name != "Acme_Framework.pdf" {
		t.Errorf("Framework = %q", p.Framework.Name)
	}
	if p.SPO.Name != "Acme_SPO.pdf" {
		t.Errorf("SPO = %q", p.SPO.Name)
	}
	// "acme_" is a 5-character shared prefix, so the bonus applies.
	if p.Score <= prefixBonus {
		t.Errorf("Score = %f, want > %f (bonus applied)", p.Score, prefixBonus)
	}
	if p.Name != "Acme" {
		t.Errorf("Name = %q, want %q", p.Name, "Acme")
	}
}

func TestPairBuckets(t *testing.T) {
	tests := []struct {
		name          string
		files         []File
		wantPairs     int
		wantUnmatched int
	}{
		{
			name: "two unrelated pairs",
			files: []File{
				{Name: "GreenCo_Framework.pdf"},
				{Name: "Solar_Corp_Framework.pdf"},
				{Name: "GreenCo_Second_Party_Opinion.pdf"},
				{Name: "Solar_Corp_SPO.pdf"},
			},
			wantPairs:     2,
			wantUnmatched: 0,
		},
		{
			name: "framework keyword with spo word stays spo",
			files: []File{
				{Name: "framework_spo_review.pdf"},
			},
			wantPairs:     0,
			wantUnmatched: 1,
		},
		{
			name: "neither keyword falls through",
			files: []File{
				{Name: "annual_report.pdf"},
			},
			wantPairs:     0,
			wantUnmatched: 1,
		},
		{
			name: "leftover spo is unmatched",
			files: []File{
				{Name: "Acme_Framework.pdf"},
				{Name: "Acme_SPO.pdf"},
				{Name: "Orphan_Opinion.pdf"},
			},
			wantPairs:     1,
			wantUnmatched: 1,
		},
		{
			name:          "empty input",
			files:         nil,
			wantPairs:     0,
			wantUnmatched: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, unmatched := Pair(tt.files)
			if len(pairs) != tt.wantPairs {
				t.Errorf("got %d pairs, want %d", len(pairs), tt.wantPairs)
			}
			if len(unmatched) != tt.wantUnmatched {
				t.Errorf("got %d unmatched, want %d", len(unmatched), tt.wantUnmatched)
			}
		})
	}
}

func TestPairThreshold(t *testing.T) {
	// Dissimilar names with no shared prefix must never pair.
	files := []File{
		{Name: "zq_framework.pdf"},
		{Name: "unrelated_company_second_party_opinion_document.pdf"},
	}

	pairs, unmatched := Pair(files)
	if len(pairs) != 0 {
		t.Fatalf("got %d pairs, want 0 (score %f)", len(pairs), pairs[0].Score)
	}
	if len(unmatched) != 2 {
		t.Errorf("got %d unmatched, want 2", len(unmatched))
	}
}

func TestPairScorePrefixBonus(t *testing.T) {
	boosted := pairScore("abcd_framework.pdf", "abcd_spo.pdf")
	without := pairScore("abcd_framework.pdf", "xyzw_spo.pdf")

	if boosted-without < prefixBonus {
		t.Errorf("prefix bonus not applied: boosted=%f without=%f", boosted, without)
	}
}

func TestPairSPOUsedAtMostOnce(t *testing.T) {
	files := []File{
		{Name: "Acme_Framework.pdf"},
		{Name: "Acme_Green_Framework.pdf"},
		{Name: "Acme_SPO.pdf"},
	}

	pairs, unmatched := Pair(files)
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if len(unmatched) != 1 {
		t.Errorf("got %d unmatched, want 1 (the second framework)", len(unmatched))
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"Acme_Framework.pdf", "Acme_SPO.pdf", "Acme"},
		{"Green-Bond-Framework.pdf", "Green-Bond-SPO.pdf", "Green-Bond"},
		{"alpha.pdf", "beta.pdf", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.a, tt.b); got != tt.want {
			t.Errorf("DisplayName(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}
