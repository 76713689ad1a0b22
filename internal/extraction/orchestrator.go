// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/spo-extractor/internal/retrieval"
	"github.com/pdiddy/spo-extractor/pkg/types"
)

// retryDelay is the linear backoff unit between completion attempts:
// attempt n waits n*retryDelay. Tests shorten it.
var retryDelay = time.Second

// systemPrompt frames every extraction call.
const systemPrompt = "You are an ESG analyst extracting structured data from green bond " +
	"framework documents and second party opinions. Answer only from the " +
	"provided context. Respond with JSON matching the requested schema; " +
	"use null for fields the context does not support."

// Completer produces a model completion for a system/user prompt pair.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Runner executes extraction tasks over the chunks of one document
// pair.
type Runner struct {
	completer   Completer
	topK        int
	maxVocab    int
	maxAttempts int
	progress    io.Writer
}

// NewRunner wires a Runner from configuration. Progress lines go to
// progress; pass io.Discard to silence them.
func NewRunner(completer Completer, retr types.RetrievalConfig, maxAttempts int, progress io.Writer) *Runner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Runner{
		completer:   completer,
		topK:        retr.TopK,
		maxVocab:    retr.MaxVocabulary,
		maxAttempts: maxAttempts,
		progress:    progress,
	}
}

// RunTasks runs every task against the pair's chunks and returns one
// result per task, in task order. A failing task records its error in
// its result and never aborts the remaining tasks.
func (r *Runner) RunTasks(ctx context.Context, tasks []types.ExtractionTask, chunks []types.Chunk) []types.ExtractionResult {
	// One index per document role, built on first use.
	indexes := map[string]*retrieval.Index{}
	indexFor := func(runFor string) *retrieval.Index {
		if ix, ok := indexes[runFor]; ok {
			return ix
		}
		ix := retrieval.NewIndex(filterChunks(chunks, runFor), r.maxVocab)
		indexes[runFor] = ix
		return ix
	}

	results := make([]types.ExtractionResult, 0, len(tasks))
	for _, task := range tasks {
		result := r.runTask(ctx, task, indexFor(task.RunFor))
		if result.Failed() {
			fmt.Fprintf(r.progress, "  task %s: FAILED (%s)\n", task.ID, result.Err)
		} else {
			fmt.Fprintf(r.progress, "  task %s: ok (%d chunks)\n", task.ID, len(result.UsedChunks))
		}
		results = append(results, result)
	}
	return results
}

func (r *Runner) runTask(ctx context.Context, task types.ExtractionTask, ix *retrieval.Index) types.ExtractionResult {
	result := types.ExtractionResult{TaskID: task.ID, RunFor: task.RunFor}

	// The completion runs even when retrieval finds nothing; the model
	// answers from an empty context (typically all nulls) and the pair
	// still gets its row downstream.
	hits := ix.TopK(task.Instruction, r.topK)
	for _, h := range hits {
		result.UsedChunks = append(result.UsedChunks, h.Index)
	}

	prompt := buildPrompt(task, retrieval.AssembleContext(hits))

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		output, err := r.completer.Complete(ctx, systemPrompt, prompt)
		if err == nil {
			result.RawOutput = output
			result.Parsed = RecoverJSON(output)
			return result
		}
		lastErr = err

		if attempt < r.maxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * retryDelay):
			case <-ctx.Done():
				result.Err = ctx.Err().Error()
				return result
			}
		}
	}

	result.Err = fmt.Sprintf("completion failed after %d attempts: %v", r.maxAttempts, lastErr)
	return result
}

// buildPrompt renders the user message: instruction, expected schema,
// then the retrieved context.
func buildPrompt(task types.ExtractionTask, contextBlock string) string {
	var sb strings.Builder
	sb.WriteString(task.Instruction)
	if len(task.Schema) > 0 {
		sb.WriteString("\n\nReturn JSON with this structure:\n")
		sb.Write(IndentSchema(task.Schema))
	}
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(contextBlock)
	return sb.String()
}

// IndentSchema pretty-prints a schema-or-example JSON value for a
// prompt, so compactly authored prompt files render the same as
// indented ones. Invalid JSON passes through unchanged.
func IndentSchema(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return raw
	}
	return buf.Bytes()
}

// filterChunks keeps the chunks a task may see. "framework" and "spo"
// restrict to one document; any other value sees the whole pair.
func filterChunks(chunks []types.Chunk, runFor string) []types.Chunk {
	role := types.DocumentRole(strings.ToLower(runFor))
	if role != types.RoleFramework && role != types.RoleSPO {
		return chunks
	}

	var kept []types.Chunk
	for _, c := range chunks {
		if c.Role == role {
			kept = append(kept, c)
		}
	}
	return kept
}
