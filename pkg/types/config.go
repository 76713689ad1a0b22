// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "spo-extractor/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for components that call a chat
// completion API.
type AIConfig struct {
	// Model is the completion model identifier (e.g. "gpt-4.1-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ChunkingConfig holds settings for splitting page text into
// overlapping windows.
type ChunkingConfig struct {
	// ChunkSize is the maximum number of characters per chunk (default 2000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// Overlap is the number of characters shared between consecutive
	// chunks (default 200). Must be smaller than ChunkSize.
	Overlap int `json:"overlap" yaml:"overlap"`
}

// Validate rejects window geometries the chunker cannot honor.
func (c ChunkingConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("overlap must be non-negative, got %d", c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("overlap (%d) must be smaller than chunk_size (%d)", c.Overlap, c.ChunkSize)
	}
	return nil
}

// RetrievalConfig holds settings for the lexical retriever.
type RetrievalConfig struct {
	// TopK is the number of chunks retrieved per extraction task (default 6).
	TopK int `json:"top_k" yaml:"top_k"`

	// MaxVocabulary caps the TF-IDF vocabulary size (default 20000).
	MaxVocabulary int `json:"max_vocabulary" yaml:"max_vocabulary"`
}

// ExtractionConfig holds settings for the prompt-driven extraction stage.
type ExtractionConfig struct {
	AIConfig `yaml:",inline"`

	// PromptsFile is the path to the extraction task definitions
	// (default "prompts/prompts_spo_framework.json").
	PromptsFile string `json:"prompts_file" yaml:"prompts_file"`
}

// OCRConfig holds settings for the table OCR service client.
type OCRConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the OCR service endpoint base
	// (default "https://llmwhisperer-api.us-central.unstract.com/api/v2").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the authentication key for the OCR service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Mode is the service processing mode (default "low_cost").
	Mode string `json:"mode" yaml:"mode"`

	// OutputMode selects the text rendering (default
	// "layout_preserving", which keeps tables spatially intact).
	OutputMode string `json:"output_mode" yaml:"output_mode"`

	// PollInterval is the delay between status polls (default 5s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// MaxPolls bounds the status poll loop (default 120). The upstream
	// service has no completion callback, so a job that never reaches
	// "processed" within MaxPolls intervals fails the table path.
	MaxPolls int `json:"max_polls" yaml:"max_polls"`
}

// TableConfig holds settings for the table extraction pipeline.
type TableConfig struct {
	// PromptsFile is the path to the single table task definition
	// (default "prompts/prompts_table.json").
	PromptsFile string `json:"prompts_file" yaml:"prompts_file"`
}

// OutputConfig holds settings for the spreadsheet accumulator.
type OutputConfig struct {
	// WorkbookPath is the XLSX file results accumulate into
	// (default "Output.xlsx").
	WorkbookPath string `json:"workbook_path" yaml:"workbook_path"`

	// DumpDir, when set, receives a YAML artifact with the raw
	// extraction results for each processed pair.
	DumpDir string `json:"dump_dir,omitempty" yaml:"dump_dir,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Chunking   ChunkingConfig   `json:"chunking" yaml:"chunking"`
	Retrieval  RetrievalConfig  `json:"retrieval" yaml:"retrieval"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	OCR        OCRConfig        `json:"ocr" yaml:"ocr"`
	Table      TableConfig      `json:"table" yaml:"table"`
	Output     OutputConfig     `json:"output" yaml:"output"`
}

// DefaultPipelineConfig returns the configuration used when no config
// file overrides are present.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Chunking: ChunkingConfig{
			ChunkSize: 2000,
			Overlap:   200,
		},
		Retrieval: RetrievalConfig{
			TopK:          6,
			MaxVocabulary: 20000,
		},
		Extraction: ExtractionConfig{
			AIConfig: AIConfig{
				Model:      "gpt-4.1-mini",
				MaxRetries: 3,
			},
			PromptsFile: "prompts/prompts_spo_framework.json",
		},
		OCR: OCRConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   60 * time.Second,
				UserAgent: "spo-extractor/0.1",
			},
			BaseURL:      "https://llmwhisperer-api.us-central.unstract.com/api/v2",
			Mode:         "low_cost",
			OutputMode:   "layout_preserving",
			PollInterval: 5 * time.Second,
			MaxPolls:     120,
		},
		Table: TableConfig{
			PromptsFile: "prompts/prompts_table.json",
		},
		Output: OutputConfig{
			WorkbookPath: "Output.xlsx",
		},
	}
}
