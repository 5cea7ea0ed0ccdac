package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit-assistant/internal/observability"
	"github.com/jonathan/jobfit-assistant/internal/prompting"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a job snapshot from an Upwork job page",
	Long: `Extract the job details (title, description, budget, skills, activity and client info)
from a live Upwork job page or a saved HTML file, and print a preview or the snapshot JSON.`,
	RunE: runExtract,
}

var (
	extractURL      string
	extractHTMLFile string
	extractBrowser  bool
	extractJSON     bool
	extractOut      string
)

func init() {
	extractCmd.Flags().StringVarP(&extractURL, "url", "u", "", "Job page URL to fetch (labels the snapshot when --html-file is used)")
	extractCmd.Flags().StringVar(&extractHTMLFile, "html-file", "", "Saved job page HTML")
	extractCmd.Flags().BoolVar(&extractBrowser, "browser", false, "Render the page in a headless browser")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the snapshot as JSON")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Also write the snapshot JSON to this file")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	src := snapshotSource{URL: extractURL, HTMLFile: extractHTMLFile, Browser: extractBrowser}
	snap, err := src.load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to extract job: %w", err)
	}

	if extractOut != "" {
		f, err := os.Create(extractOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := writeJSON(f, snap); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if extractJSON {
		return writeJSON(out, snap)
	}

	observability.NewPrinter(out).PrintSnapshot(&snap)
	_, err = fmt.Fprintln(out, prompting.FormatPreview(snap))
	return err
}
