// Package main provides the jobfit_agent command line tool and HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/observability"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	appEnv *config.Env
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jobfit_agent",
	Short: "Upwork job fit assistant",
	Long: "jobfit_agent extracts Upwork job postings, asks an LLM provider (OpenAI, Gemini or Grok) " +
		"whether the job fits your profile, and drafts a proposal.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default $JOBFIT_CONFIG or <user config dir>/jobfit/settings.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level, overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text or json), overrides LOG_FORMAT")
}

// setup reads the environment and builds the shared logger.
func setup(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	if logLevel != "" {
		env.LogLevel = logLevel
	}
	if logFormat != "" {
		env.LogFormat = logFormat
	}

	l, err := observability.NewLogger(env.LogLevel, env.LogFormat)
	if err != nil {
		return err
	}
	l.SetOutput(cmd.ErrOrStderr())

	appEnv, logger = env, l
	return nil
}

func main() {
	// Load .env file if it exists
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
