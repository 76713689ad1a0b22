package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/spo-extractor/internal/pairing"
)

var matchCmd = &cobra.Command{
	Use:   "match [pdf...]",
	Short: "Preview the framework/SPO pairing without processing",
	Long: `Match runs the filename pairing over the given PDFs and prints the
resolved pairs with their similarity scores, plus any files left
unmatched. Nothing is downloaded, extracted, or written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	files := make([]pairing.File, 0, len(args))
	for _, path := range args {
		files = append(files, pairing.File{Name: filepath.Base(path), Path: path})
	}

	pairs, unmatched := pairing.Pair(files)

	out := cmd.OutOrStdout()
	for _, p := range pairs {
		name := p.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(out, "pair %-30s framework=%s spo=%s score=%.2f\n",
			name, p.Framework.Name, p.SPO.Name, p.Score)
	}
	for _, f := range unmatched {
		fmt.Fprintf(out, "unmatched %s\n", f.Name)
	}
	fmt.Fprintf(out, "%d pair(s), %d unmatched\n", len(pairs), len(unmatched))
	return nil
}
