package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jonathan/jobfit-assistant/internal/llm"
)

// DefaultRateLimitRPS bounds provider-backed API requests per client.
const DefaultRateLimitRPS = 2.0

// Env holds process-level settings read from the environment.
type Env struct {
	ConfigPath   string
	Passphrase   string
	DatabaseURL  string
	RedisURL     string
	LogLevel     string
	LogFormat    string
	RateLimitRPS float64
}

var apiKeyVars = map[llm.Provider]string{
	llm.ProviderOpenAI: "OPENAI_API_KEY",
	llm.ProviderGemini: "GEMINI_API_KEY",
	llm.ProviderGrok:   "XAI_API_KEY",
}

// LoadDotEnv loads the given .env files (default ".env"). Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (*Env, error) {
	env := &Env{
		ConfigPath:   os.Getenv(EnvConfigPath),
		Passphrase:   os.Getenv("JOBFIT_PASSPHRASE"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		LogLevel:     strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		LogFormat:    strings.ToLower(getenvDefault("LOG_FORMAT", "text")),
		RateLimitRPS: DefaultRateLimitRPS,
	}

	if raw := os.Getenv("RATE_LIMIT_RPS"); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %v", err)
		}
		if rps <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", rps)
		}
		env.RateLimitRPS = rps
	}

	return env, nil
}

// EnvAPIKeyVar names the environment variable holding a plaintext key for p.
func EnvAPIKeyVar(p llm.Provider) string {
	return apiKeyVars[p]
}

// EnvAPIKey returns the plaintext key for p from the environment, if any.
func EnvAPIKey(p llm.Provider) string {
	name, ok := apiKeyVars[p]
	if !ok {
		return ""
	}
	return strings.TrimSpace(os.Getenv(name))
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
