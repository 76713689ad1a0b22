package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [root-folder]",
	Short: "Process per-company subfolders of a root folder",
	Long: `Run walks the subfolders of a root folder, expecting each to contain a
framework PDF and an SPO PDF (or exactly two PDFs). Each pair is
processed in sorted folder order and the results accumulate into the
output workbook. Folders without a recognizable pair are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	addPipelineFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(cmd)
	if err != nil {
		return err
	}

	summary, err := p.RunFolders(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d pair(s) failed processing", summary.Failed)
	}
	return nil
}
