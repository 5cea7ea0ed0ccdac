package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit-assistant/internal/db"
	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/observability"
	"github.com/jonathan/jobfit-assistant/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Ask the active provider whether a job is worth applying to",
	Long: `Extract a job (or load a saved snapshot), build the analysis prompt from your mindset,
call the active LLM provider and print the fit score, reasons, risks and proposal drafts.`,
	RunE: runAnalyze,
}

var (
	analyzeURL          string
	analyzeHTMLFile     string
	analyzeSnapshotFile string
	analyzeBrowser      bool
	analyzeProvider     string
	analyzePassphrase   string
	analyzeSave         bool
	analyzeJSON         bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "Job page URL to fetch")
	analyzeCmd.Flags().StringVar(&analyzeHTMLFile, "html-file", "", "Saved job page HTML")
	analyzeCmd.Flags().StringVarP(&analyzeSnapshotFile, "snapshot", "s", "", "Snapshot JSON written by extract --json")
	analyzeCmd.Flags().BoolVar(&analyzeBrowser, "browser", false, "Render the page in a headless browser")
	analyzeCmd.Flags().StringVarP(&analyzeProvider, "provider", "p", "", "Provider to use instead of the active one (openai, gemini, grok)")
	analyzeCmd.Flags().StringVar(&analyzePassphrase, "passphrase", "", "Passphrase for the saved API key (default $JOBFIT_PASSPHRASE)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Record the run in the analysis history (requires DATABASE_URL)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the response envelope as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}
	if analyzeProvider != "" {
		p, err := llm.ParseProvider(analyzeProvider)
		if err != nil {
			return err
		}
		cfg.ActiveProvider = p
	}

	src := snapshotSource{
		URL:          analyzeURL,
		HTMLFile:     analyzeHTMLFile,
		SnapshotFile: analyzeSnapshotFile,
		Browser:      analyzeBrowser,
	}
	snap, err := src.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if analyzeSave {
		if appEnv.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required for --save")
		}
		database, err := db.Connect(ctx, appEnv.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		opts = append(opts, pipeline.WithRecorder(database))
	}

	analyzer := pipeline.NewAnalyzer(newLLMClient(), opts...)
	result, err := analyzer.Analyze(ctx, cfg, snap, passphraseOr(analyzePassphrase))

	out := cmd.OutOrStdout()
	if analyzeJSON {
		resp := pipeline.AnalysisResponse(result)
		if err != nil {
			resp = pipeline.ErrorResponse(err)
		}
		if werr := writeJSON(out, resp); werr != nil {
			return werr
		}
		return err
	}

	printer := observability.NewPrinter(out)
	if err != nil {
		var pe *llm.ProviderError
		if errors.As(err, &pe) {
			printer.PrintProviderError(pe)
		}
		return err
	}

	printer.PrintSnapshot(&snap)
	printer.PrintAnalysis(result)
	return nil
}
