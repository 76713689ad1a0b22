// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// ExtractionTask is one configured prompt: an instruction plus the JSON
// shape the model must produce. The schema is opaque to the pipeline --
// it is re-serialized into the prompt and never introspected, so a
// literal example object works as well as a formal schema.
type ExtractionTask struct {
	// ID identifies the task in logs and result artifacts.
	ID string `json:"id" yaml:"id"`

	// RunFor selects which chunks the task sees: "framework", "spo",
	// or "both".
	RunFor string `json:"run_for" yaml:"run_for"`

	// Instruction is the extraction request, also used as the
	// retrieval query.
	Instruction string `json:"instruction" yaml:"instruction"`

	// Schema is the schema-or-example JSON value rendered into the
	// prompt, pretty-printed but never introspected.
	Schema json.RawMessage `json:"json_schema" yaml:"json_schema"`
}

// TableTask is the single fixed task applied to OCR output from merged
// table pages.
type TableTask struct {
	// Description is the extraction instruction for tabular data.
	Description string `json:"task_description" yaml:"task_description"`

	// Schema is the required output shape, rendered into the prompt
	// like ExtractionTask.Schema.
	Schema json.RawMessage `json:"output_json_structure" yaml:"output_json_structure"`
}

// ExtractionResult is the outcome of one task over one document pair.
type ExtractionResult struct {
	// TaskID is the originating task's ID.
	TaskID string `json:"task_id" yaml:"task_id"`

	// RunFor is the originating task's document role selector.
	RunFor string `json:"run_for" yaml:"run_for"`

	// Parsed is the recovered JSON value. Always present: when the
	// model output cannot be parsed it degrades to {"_raw": <output>}.
	Parsed map[string]any `json:"result" yaml:"result"`

	// UsedChunks lists the retrieved chunk indices, in rank order,
	// that formed the context.
	UsedChunks []int `json:"used_context_indices" yaml:"used_context_indices"`

	// RawOutput is the unmodified model response text.
	RawOutput string `json:"raw_model_output" yaml:"raw_model_output"`

	// Err records a task-level failure (retries exhausted). A failed
	// task never aborts the remaining tasks for the pair.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the task failed before producing a result.
func (r ExtractionResult) Failed() bool { return r.Err != "" }
