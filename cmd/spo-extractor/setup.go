// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/spo-extractor/internal/extraction"
	"github.com/pdiddy/spo-extractor/internal/ocr"
	"github.com/pdiddy/spo-extractor/internal/pdfio"
	"github.com/pdiddy/spo-extractor/internal/pipeline"
	"github.com/pdiddy/spo-extractor/internal/secrets"
	"github.com/pdiddy/spo-extractor/internal/tablepipe"
	"github.com/pdiddy/spo-extractor/internal/workbook"
	"github.com/pdiddy/spo-extractor/pkg/types"
)

// addPipelineFlags registers the flags shared by the processing
// commands.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "completion model identifier (default gpt-4.1-mini)")
	cmd.Flags().String("output", "", "output workbook path (default Output.xlsx)")
	cmd.Flags().String("dump-dir", "", "directory for per-pair YAML result artifacts")
	cmd.Flags().String("prompts", "", "extraction tasks JSON file (default prompts/prompts_spo_framework.json)")
	cmd.Flags().String("table-prompts", "", "table task JSON file (default prompts/prompts_table.json)")
	cmd.Flags().Bool("skip-tables", false, "disable the table OCR path")
}

// pipelineConfig merges defaults, config file values, and flags.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	if v := viper.GetString("ocr.base_url"); v != "" {
		cfg.OCR.BaseURL = v
	}
	if v := viper.GetString("extraction.model"); v != "" {
		cfg.Extraction.Model = v
	}

	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Extraction.Model = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Output.WorkbookPath = v
	}
	if v, _ := cmd.Flags().GetString("dump-dir"); v != "" {
		cfg.Output.DumpDir = v
	}
	if v, _ := cmd.Flags().GetString("prompts"); v != "" {
		cfg.Extraction.PromptsFile = v
	}
	if v, _ := cmd.Flags().GetString("table-prompts"); v != "" {
		cfg.Table.PromptsFile = v
	}

	return cfg
}

// buildPipeline verifies credentials and assembles the full pipeline.
// Both API keys are checked here, before any document is touched.
func buildPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	cfg := pipelineConfig(cmd)
	skipTables, _ := cmd.Flags().GetBool("skip-tables")

	cfg.Extraction.APIKey = secrets.Resolve(loadedSecrets, "OPENAI_API_KEY", "openai-api-key")
	if cfg.Extraction.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key missing: set OPENAI_API_KEY or .secrets/openai-api-key")
	}

	if !skipTables {
		cfg.OCR.APIKey = secrets.Resolve(loadedSecrets, "LLMWHISPERER_API_KEY", "llmwhisperer-api-key")
		if cfg.OCR.APIKey == "" {
			return nil, fmt.Errorf("LLMWhisperer API key missing: set LLMWHISPERER_API_KEY or .secrets/llmwhisperer-api-key (or pass --skip-tables)")
		}
	}

	tasks, err := extraction.LoadTasks(cfg.Extraction.PromptsFile)
	if err != nil {
		return nil, err
	}

	backend := extraction.NewOpenAIBackend(cfg.Extraction.AIConfig, slog.Default())
	runner := extraction.NewRunner(backend, cfg.Retrieval, cfg.Extraction.MaxRetries, os.Stdout)
	wb := workbook.New(cfg.Output.WorkbookPath, slog.Default())

	var tableRunner *tablepipe.Runner
	if !skipTables {
		tableTask, err := extraction.LoadTableTask(cfg.Table.PromptsFile)
		if err != nil {
			return nil, err
		}
		ocrClient := ocr.NewClient(cfg.OCR, slog.Default())
		tableRunner = tablepipe.NewRunner(ocrClient, backend, tableTask, os.Stdout)
	}

	return pipeline.New(pdfio.NewLayoutReader(), runner, tableRunner, wb,
		tasks, cfg.Chunking, cfg.Output.DumpDir, os.Stdout), nil
}
