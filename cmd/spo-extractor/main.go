// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the spo-extractor CLI.
//
// The pipeline stages live in internal/: pairing, PDF reading,
// chunking, retrieval, extraction, the table OCR path, and the
// workbook accumulator. Each batch entry point is a subcommand.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/spo-extractor/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the spo-extractor CLI.
var rootCmd = &cobra.Command{
	Use:   "spo-extractor",
	Short: "Extract structured ESG data from framework/SPO document pairs",
	Long: `spo-extractor processes green bond framework documents together with
their second party opinions (SPOs). Documents are paired, chunked, and
queried with retrieval-augmented extraction tasks; tabular pages go
through an OCR service. All results accumulate into one spreadsheet.

Batch entry points are subcommands: run walks a root folder of
per-company subfolders, batch pairs an arbitrary set of PDFs by
filename, and match previews the pairing without processing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables win.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		level := slog.LevelInfo
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./spo-extractor.yaml or ~/.config/spo-extractor/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("spo-extractor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "spo-extractor"))
		}
	}

	viper.SetEnvPrefix("SPO_EXTRACTOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
