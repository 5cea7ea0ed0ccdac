package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit-assistant/internal/db"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analysis runs",
	Long:  "List analysis runs recorded with analyze --save or by the API server, newest first. Requires DATABASE_URL.",
	RunE:  runHistory,
}

var (
	historyURL      string
	historyProvider string
	historyStatus   string
	historyLimit    int
	historyJSON     bool
)

func init() {
	historyCmd.Flags().StringVarP(&historyURL, "url", "u", "", "Only runs for this job URL")
	historyCmd.Flags().StringVarP(&historyProvider, "provider", "p", "", "Only runs against this provider")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Only runs with this status (succeeded, failed)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", db.DefaultListLimit, "Maximum number of runs")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print runs as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if appEnv.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, appEnv.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListAnalysisRuns(ctx, db.RunFilters{
		URL:      historyURL,
		Provider: historyProvider,
		Status:   historyStatus,
		Limit:    historyLimit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		return writeJSON(out, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No analysis runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tPROVIDER\tSTATUS\tSCORE\tTITLE")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			run.CreatedAt.Local().Format("2006-01-02 15:04"), run.Provider, run.Status, scoreOf(run), run.Title)
	}
	return tw.Flush()
}

func scoreOf(run db.AnalysisRun) string {
	if run.Result == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", run.Result.FitScore)
}
