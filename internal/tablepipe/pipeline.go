// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tablepipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/spo-extractor/internal/extraction"
	"github.com/pdiddy/spo-extractor/internal/pdfio"
	"github.com/pdiddy/spo-extractor/pkg/types"
)

// retryDelay is the linear backoff unit between table completion
// attempts. Tests shorten it.
var retryDelay = time.Second

const tableAttempts = 3

// tableSystemPrompt frames the table extraction call.
const tableSystemPrompt = "You are an ESG analyst reading OCR text extracted from the table " +
	"pages of green bond documents. The text preserves the original page " +
	"layout. Respond with JSON matching the requested structure."

// OCRClient runs the full OCR round trip for one PDF.
type OCRClient interface {
	Process(ctx context.Context, path string) (string, error)
}

// Runner drives the table extraction path for one document pair.
type Runner struct {
	ocr       OCRClient
	completer extraction.Completer
	task      types.TableTask
	progress  io.Writer
}

// NewRunner wires a table pipeline runner.
func NewRunner(ocr OCRClient, completer extraction.Completer, task types.TableTask, progress io.Writer) *Runner {
	return &Runner{ocr: ocr, completer: completer, task: task, progress: progress}
}

// Run extracts tabular data for one pair: merge the table pages, OCR
// the merged PDF, and run the table task over the OCR text. Returns
// (nil, nil) when neither document has tabular pages.
func (r *Runner) Run(ctx context.Context, pair types.DocumentPair, frameworkPages, spoPages []pdfio.Page) (map[string]any, error) {
	tmpDir, err := os.MkdirTemp("", "tablerun-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	mergedPath := filepath.Join(tmpDir, "tables.pdf")
	err = BuildMergedPDF(pair.FrameworkPath, pair.SPOPath, frameworkPages, spoPages, mergedPath)
	if errors.Is(err, ErrNoTables) {
		fmt.Fprintf(r.progress, "  tables: none detected, skipping\n")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(r.progress, "  tables: OCR on %d framework + %d spo pages\n",
		len(TablePages(frameworkPages)), len(TablePages(spoPages)))

	text, err := r.ocr.Process(ctx, mergedPath)
	if err != nil {
		return nil, fmt.Errorf("OCR of merged table pages: %w", err)
	}

	output, err := r.complete(ctx, text)
	if err != nil {
		return nil, err
	}
	return extraction.RecoverJSON(output), nil
}

func (r *Runner) complete(ctx context.Context, ocrText string) (string, error) {
	prompt := buildTablePrompt(r.task, ocrText)

	var lastErr error
	for attempt := 1; attempt <= tableAttempts; attempt++ {
		output, err := r.completer.Complete(ctx, tableSystemPrompt, prompt)
		if err == nil {
			return output, nil
		}
		lastErr = err

		if attempt < tableAttempts {
			select {
			case <-time.After(time.Duration(attempt) * retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("table completion failed after %d attempts: %w", tableAttempts, lastErr)
}

func buildTablePrompt(task types.TableTask, ocrText string) string {
	var sb strings.Builder
	sb.WriteString(task.Description)
	if len(task.Schema) > 0 {
		sb.WriteString("\n\nReturn JSON with this structure:\n")
		sb.Write(extraction.IndentSchema(task.Schema))
	}
	sb.WriteString("\n\nOCR text:\n")
	sb.WriteString(ocrText)
	return sb.String()
}
