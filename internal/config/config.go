// Package config loads, validates and saves the assistant settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/schemas"
	"github.com/jonathan/jobfit-assistant/internal/types"
)

// EnvConfigPath overrides the settings file location.
const EnvConfigPath = "JOBFIT_CONFIG"

// ProviderConfig holds the per-vendor call settings.
type ProviderConfig struct {
	Model           string           `json:"model" validate:"required"`
	APIKeyEncrypted *EncryptedSecret `json:"apiKeyEncrypted,omitempty" validate:"omitempty"`
	BaseURL         string           `json:"baseUrl,omitempty" validate:"omitempty,url"`
	Temperature     *float64         `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxOutputTokens *int             `json:"maxOutputTokens,omitempty" validate:"omitempty,gte=1,lte=32000"`
}

// Providers is the provider map, one entry per supported vendor.
type Providers struct {
	OpenAI ProviderConfig `json:"openai"`
	Gemini ProviderConfig `json:"gemini"`
	Grok   ProviderConfig `json:"grok"`
}

// Get returns the settings for p. Unknown providers get a zero value.
func (ps *Providers) Get(p llm.Provider) ProviderConfig {
	if slot := ps.slot(p); slot != nil {
		return *slot
	}
	return ProviderConfig{}
}

// Set replaces the settings for p.
func (ps *Providers) Set(p llm.Provider, pc ProviderConfig) error {
	slot := ps.slot(p)
	if slot == nil {
		return fmt.Errorf("unsupported provider %q", p)
	}
	*slot = pc
	return nil
}

func (ps *Providers) slot(p llm.Provider) *ProviderConfig {
	switch p {
	case llm.ProviderOpenAI:
		return &ps.OpenAI
	case llm.ProviderGemini:
		return &ps.Gemini
	case llm.ProviderGrok:
		return &ps.Grok
	default:
		return nil
	}
}

// Config is the persisted settings document.
type Config struct {
	ActiveProvider     llm.Provider  `json:"activeProvider" validate:"required,oneof=openai gemini grok"`
	Providers          Providers     `json:"providers"`
	RememberPassphrase bool          `json:"rememberPassphrase"`
	Mindset            types.Profile `json:"mindset"`
}

// Default returns the settings used when no file exists yet.
func Default() Config {
	cfg := Config{
		ActiveProvider: llm.ProviderOpenAI,
		Mindset: types.Profile{
			ProfileName:        "Freelancer",
			RoleTitle:          "Full-stack Web Developer",
			CoreSkills:         []string{"JavaScript", "TypeScript", "React", "Node.js", "PostgreSQL", "REST APIs"},
			SecondarySkills:    []string{"Next.js", "Vue.js", "Docker"},
			NoGoSkills:         []string{"WordPress theme customization", "Data entry"},
			ProposalStyleRules: []string{"Open with the client's problem, not a greeting", "Keep the short proposal under 80 words", "Mention one relevant past project"},
			RedFlags:           []string{"Unverified payment method", "Budget far below market rate", "Requests for free test work"},
		},
	}
	for _, p := range llm.Providers {
		_ = cfg.Providers.Set(p, defaultProvider(p))
	}
	return cfg
}

func defaultProvider(p llm.Provider) ProviderConfig {
	d := llm.DefaultsFor(p)
	temp := d.Temperature
	tokens := d.MaxOutputTokens
	return ProviderConfig{
		Model:           d.Model,
		BaseURL:         d.BaseURL,
		Temperature:     &temp,
		MaxOutputTokens: &tokens,
	}
}

// DefaultPath returns $JOBFIT_CONFIG or <user config dir>/jobfit/settings.json.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "jobfit", "settings.json"), nil
}

// LoadConfig loads settings from a JSON file. The raw document is checked
// against the settings schema, missing values are filled from Default and
// the result is validated.
func LoadConfig(path string) (*Config, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to parse config JSON: %s is not valid JSON", path)
	}
	if err := schemas.ValidateSettings(data); err != nil {
		return nil, fmt.Errorf("config file %s does not match the settings schema: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadOrDefault behaves like LoadConfig but returns Default when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		d := Default()
		return &d, nil
	}
	return cfg, err
}

// Save writes the settings to path with owner-only permissions.
func Save(path string, cfg *Config) error {
	path, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}
	return path, nil
}

var validate = validator.New()

// Validate checks struct-level constraints on the decoded settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' check", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ActiveProvider == "" {
		result.ActiveProvider = defaults.ActiveProvider
	}

	for _, p := range llm.Providers {
		pc := result.Providers.Get(p)
		def := defaults.Providers.Get(p)
		if pc.Model == "" {
			pc.Model = def.Model
		}
		if pc.BaseURL == "" {
			pc.BaseURL = def.BaseURL
		}
		if pc.Temperature == nil {
			pc.Temperature = def.Temperature
		}
		if pc.MaxOutputTokens == nil {
			pc.MaxOutputTokens = def.MaxOutputTokens
		}
		_ = result.Providers.Set(p, pc)
	}

	// A mindset is all-or-nothing: the schema requires its name fields.
	if result.Mindset.ProfileName == "" && result.Mindset.RoleTitle == "" {
		result.Mindset = defaults.Mindset
	}

	// RememberPassphrase: cannot distinguish unset from false, so we don't merge

	return result
}

// Request builds an llm.Request for p from the stored settings. The API key is
// supplied separately, see ResolveAPIKey.
func (c *Config) Request(p llm.Provider, apiKey string, prompt types.PromptPair) llm.Request {
	pc := c.Providers.Get(p)
	return llm.Request{
		Provider:        p,
		APIKey:          apiKey,
		Model:           pc.Model,
		BaseURL:         pc.BaseURL,
		Temperature:     pc.Temperature,
		MaxOutputTokens: pc.MaxOutputTokens,
		Instructions:    prompt.Instructions,
		Input:           prompt.Input,
	}
}
