package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/db"
	"github.com/jonathan/jobfit-assistant/internal/pipeline"
	"github.com/jonathan/jobfit-assistant/internal/server"
	"github.com/jonathan/jobfit-assistant/internal/server/ratelimit"
	"github.com/jonathan/jobfit-assistant/internal/snapshots"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing extraction, analysis, connection tests and the snapshot cache.
REDIS_URL switches the snapshot cache to Redis; DATABASE_URL enables the analysis history.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	path, err := settingsPath()
	if err != nil {
		return err
	}
	// Fail fast on a broken settings file; handlers reload it per request.
	if _, err := config.LoadOrDefault(path); err != nil {
		return err
	}

	deps := server.Deps{
		Settings: func() (*config.Config, error) { return config.LoadOrDefault(path) },
		Limiter:  ratelimit.NewLimiter(ratelimit.LoadConfig(appEnv.RateLimitRPS)),
		Logger:   logger,
	}
	analyzerOpts := []pipeline.Option{pipeline.WithLogger(logger)}

	if appEnv.RedisURL != "" {
		client, err := snapshots.NewRedisClient(ctx, appEnv.RedisURL)
		if err != nil {
			return err
		}
		store := snapshots.NewRedisStore(client, snapshots.DefaultTTL)
		defer func() { _ = store.Close() }()
		deps.Snapshots = store
		logger.Info("Snapshot cache: redis")
	}

	if appEnv.DatabaseURL != "" {
		database, err := db.Connect(ctx, appEnv.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		deps.History = database
		analyzerOpts = append(analyzerOpts, pipeline.WithRecorder(database))
		logger.Info("Analysis history: postgres")
	}

	deps.Analyzer = pipeline.NewAnalyzer(newLLMClient(), analyzerOpts...)

	srv, err := server.New(server.Config{Port: servePort}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
