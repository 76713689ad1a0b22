// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DocumentRole identifies which side of a pair a document (or a chunk
// cut from it) belongs to.
type DocumentRole string

const (
	RoleFramework DocumentRole = "framework"
	RoleSPO       DocumentRole = "spo"
)

// DocumentPair associates a sustainable-finance framework PDF with its
// second party opinion PDF for one processing unit.
type DocumentPair struct {
	// Name is the display label for the pair, usually the shared
	// filename prefix or the containing folder name.
	Name string `json:"name" yaml:"name"`

	// FrameworkPath is the path to the framework PDF.
	FrameworkPath string `json:"framework_path" yaml:"framework_path"`

	// SPOPath is the path to the second party opinion PDF.
	SPOPath string `json:"spo_path" yaml:"spo_path"`
}

// Chunk is a bounded window of page text carrying provenance back to
// its source document, page, and position on the page.
type Chunk struct {
	// Text is the trimmed chunk content.
	Text string `json:"text" yaml:"text"`

	// Role records which document of the pair the chunk came from.
	Role DocumentRole `json:"role" yaml:"role"`

	// Page is the 1-indexed source page number.
	Page int `json:"page" yaml:"page"`

	// Ordinal is the 1-indexed position of the chunk within its page.
	Ordinal int `json:"ordinal" yaml:"ordinal"`

	// Group is an optional label tying the chunk to its pair
	// (folder or display name).
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
}
