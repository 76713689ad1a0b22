// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the stages together: pairing, page
// extraction, chunking, task extraction, the table path, and the
// workbook writes. Pairs are processed strictly one at a time -- the
// workbook's SPO linkage depends on write order.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/spo-extractor/internal/chunker"
	"github.com/pdiddy/spo-extractor/internal/extraction"
	"github.com/pdiddy/spo-extractor/internal/pairing"
	"github.com/pdiddy/spo-extractor/internal/pdfio"
	"github.com/pdiddy/spo-extractor/internal/tablepipe"
	"github.com/pdiddy/spo-extractor/internal/workbook"
	"github.com/pdiddy/spo-extractor/pkg/types"
)

// BatchSummary holds counts from one batch run.
type BatchSummary struct {
	Processed int
	Skipped   int
	Failed    int
}

// Total returns the number of pairs considered.
func (s BatchSummary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// HasFailures reports whether any pair failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Pipeline processes document pairs end to end.
type Pipeline struct {
	reader   pdfio.Reader
	runner   *extraction.Runner
	table    *tablepipe.Runner
	workbook *workbook.Workbook
	tasks    []types.ExtractionTask
	chunking types.ChunkingConfig
	dumpDir  string
	progress io.Writer
}

// New assembles a pipeline from its stages. A nil table runner
// disables the table path. dumpDir may be empty to skip YAML
// artifacts.
func New(reader pdfio.Reader, runner *extraction.Runner, table *tablepipe.Runner,
	wb *workbook.Workbook, tasks []types.ExtractionTask,
	chunking types.ChunkingConfig, dumpDir string, progress io.Writer) *Pipeline {
	return &Pipeline{
		reader:   reader,
		runner:   runner,
		table:    table,
		workbook: wb,
		tasks:    tasks,
		chunking: chunking,
		dumpDir:  dumpDir,
		progress: progress,
	}
}

// ProcessPair runs the text tasks and the table path for one pair and
// writes the outcome to the workbook. Task failures and table failures
// are isolated; reader and workbook errors are fatal for the pair.
func (p *Pipeline) ProcessPair(ctx context.Context, pair types.DocumentPair) error {
	fmt.Fprintf(p.progress, "processing %s\n", pair.Name)

	fwPages, err := p.reader.ExtractPages(pair.FrameworkPath)
	if err != nil {
		return fmt.Errorf("reading framework document: %w", err)
	}
	spoPages, err := p.reader.ExtractPages(pair.SPOPath)
	if err != nil {
		return fmt.Errorf("reading SPO document: %w", err)
	}

	chunks := chunker.BuildPair(fwPages, spoPages, p.chunking, pair.Name)
	fmt.Fprintf(p.progress, "  %d pages framework, %d pages spo, %d chunks\n",
		len(fwPages), len(spoPages), len(chunks))

	results := p.runner.RunTasks(ctx, p.tasks, chunks)

	// Workbook writes happen in task order; the framework write hands
	// its identifier to the SPO write that follows.
	var lastID string
	for _, result := range results {
		if result.Failed() {
			continue
		}
		switch strings.ToLower(result.RunFor) {
		case "framework":
			id, err := p.workbook.WriteFramework(result.Parsed)
			if err != nil {
				return fmt.Errorf("writing framework rows: %w", err)
			}
			lastID = id
		case "spo":
			// Without a framework row from this pair there is nothing to
			// attach to; the empty-token fallback would hit whatever row
			// the previous pair wrote last, so force the orphan path.
			id := lastID
			if id == "" {
				id = workbook.UnknownID
			}
			if _, err := p.workbook.WriteSPO(result.Parsed, id); err != nil {
				return fmt.Errorf("writing SPO rows: %w", err)
			}
		}
	}

	tableData := p.runTablePath(ctx, pair, fwPages, spoPages)

	if p.dumpDir != "" {
		if err := p.dumpArtifact(pair, results, tableData); err != nil {
			fmt.Fprintf(p.progress, "  dump failed: %v\n", err)
		}
	}

	return nil
}

// runTablePath runs the table pipeline for the pair. Failures are
// reported and swallowed: the text results are already written.
func (p *Pipeline) runTablePath(ctx context.Context, pair types.DocumentPair, fwPages, spoPages []pdfio.Page) map[string]any {
	if p.table == nil {
		return nil
	}

	data, err := p.table.Run(ctx, pair, fwPages, spoPages)
	if err != nil {
		fmt.Fprintf(p.progress, "  table path failed: %v\n", err)
		return nil
	}
	if data == nil {
		return nil
	}

	if _, err := p.workbook.WriteTable(data); err != nil {
		fmt.Fprintf(p.progress, "  table write failed: %v\n", err)
		return data
	}
	return data
}

// RunFolders processes every subfolder of root as one company pair, in
// sorted folder-name order. Folders without a recognizable pair are
// skipped with a warning.
func (p *Pipeline) RunFolders(ctx context.Context, root string) (BatchSummary, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("reading root folder %s: %w", root, err)
	}

	var summary BatchSummary

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(root, entry.Name())
		fwPath, spoPath, err := pairing.FindFolderPair(dir)
		if err != nil {
			fmt.Fprintf(p.progress, "skipped %s: %v\n", entry.Name(), err)
			summary.Skipped++
			continue
		}

		pair := types.DocumentPair{
			Name:          entry.Name(),
			FrameworkPath: fwPath,
			SPOPath:       spoPath,
		}
		if err := p.ProcessPair(ctx, pair); err != nil {
			fmt.Fprintf(p.progress, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}
		summary.Processed++
	}

	fmt.Fprintf(p.progress, "done: %d processed, %d skipped, %d failed\n",
		summary.Processed, summary.Skipped, summary.Failed)
	return summary, nil
}

// RunFiles pairs an arbitrary set of PDFs by filename similarity and
// processes the matches in matcher output order. Unmatched files are
// reported, not errors.
func (p *Pipeline) RunFiles(ctx context.Context, paths []string) (BatchSummary, error) {
	files := make([]pairing.File, 0, len(paths))
	for _, path := range paths {
		files = append(files, pairing.File{Name: filepath.Base(path), Path: path})
	}

	matches, unmatched := pairing.Pair(files)
	for _, f := range unmatched {
		fmt.Fprintf(p.progress, "unmatched %s\n", f.Name)
	}

	var summary BatchSummary
	summary.Skipped = len(unmatched)

	for _, m := range matches {
		name := m.Name
		if name == "" {
			name = strings.TrimSuffix(m.Framework.Name, filepath.Ext(m.Framework.Name))
		}
		pair := types.DocumentPair{
			Name:          name,
			FrameworkPath: m.Framework.Path,
			SPOPath:       m.SPO.Path,
		}
		if err := p.ProcessPair(ctx, pair); err != nil {
			fmt.Fprintf(p.progress, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		summary.Processed++
	}

	fmt.Fprintf(p.progress, "done: %d processed, %d skipped, %d failed\n",
		summary.Processed, summary.Skipped, summary.Failed)
	return summary, nil
}

// pairArtifact is the YAML dump written per pair when a dump directory
// is configured.
type pairArtifact struct {
	Pair    types.DocumentPair       `yaml:"pair"`
	Results []types.ExtractionResult `yaml:"results"`
	Table   map[string]any           `yaml:"table,omitempty"`
}

// dumpArtifact marshals the raw extraction results to a YAML file named
// after the pair.
func (p *Pipeline) dumpArtifact(pair types.DocumentPair, results []types.ExtractionResult, table map[string]any) error {
	if err := os.MkdirAll(p.dumpDir, 0o755); err != nil {
		return fmt.Errorf("creating dump directory: %w", err)
	}

	data, err := yaml.Marshal(pairArtifact{Pair: pair, Results: results, Table: table})
	if err != nil {
		return fmt.Errorf("marshaling artifact: %w", err)
	}

	path := filepath.Join(p.dumpDir, sanitizeName(pair.Name)+".yaml")
	return os.WriteFile(path, data, 0o644)
}

// sanitizeName keeps dump filenames filesystem-safe.
func sanitizeName(name string) string {
	if name == "" {
		return "pair"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
