package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/observability"
	"github.com/jonathan/jobfit-assistant/internal/pipeline"
)

var testConnectionCmd = &cobra.Command{
	Use:   "test-connection",
	Short: "Send a minimal health-check request to a provider",
	Long: `Verify that a provider's API key, model and base URL work by sending a tiny
health-check prompt. With --all every provider is probed concurrently.`,
	RunE: runTestConnection,
}

var (
	testConnProvider   string
	testConnAll        bool
	testConnPassphrase string
)

func init() {
	testConnectionCmd.Flags().StringVarP(&testConnProvider, "provider", "p", "", "Provider to test (default: the active provider)")
	testConnectionCmd.Flags().BoolVar(&testConnAll, "all", false, "Test every provider")
	testConnectionCmd.Flags().StringVar(&testConnPassphrase, "passphrase", "", "Passphrase for saved API keys (default $JOBFIT_PASSPHRASE)")
	testConnectionCmd.MarkFlagsMutuallyExclusive("provider", "all")

	rootCmd.AddCommand(testConnectionCmd)
}

func runTestConnection(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}

	analyzer := pipeline.NewAnalyzer(newLLMClient(), pipeline.WithLogger(logger))
	printer := observability.NewPrinter(cmd.OutOrStdout())
	passphrase := passphraseOr(testConnPassphrase)

	if testConnAll {
		failed := 0
		results := analyzer.TestConnections(cmd.Context(), cfg, passphrase)
		for _, res := range results {
			printer.PrintConnection(res.Provider, res.Message, res.Err)
			if res.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d connection tests failed", failed, len(results))
		}
		return nil
	}

	p := cfg.ActiveProvider
	if testConnProvider != "" {
		if p, err = llm.ParseProvider(testConnProvider); err != nil {
			return err
		}
	}

	msg, err := analyzer.TestConnection(cmd.Context(), cfg, p, passphrase)
	printer.PrintConnection(p, msg, err)
	return err
}
