package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [pdf...]",
	Short: "Pair an arbitrary set of PDFs by filename and process them",
	Long: `Batch takes any number of PDF paths, pairs frameworks with SPOs by
filename keyword and similarity, and processes each pair in matcher
output order. Files that cannot be paired are reported and skipped.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runBatch,
}

func init() {
	addPipelineFlags(batchCmd)
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(cmd)
	if err != nil {
		return err
	}

	summary, err := p.RunFiles(cmd.Context(), args)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d pair(s) failed processing", summary.Failed)
	}
	return nil
}
