package config

import (
	"fmt"
	"strings"

	"github.com/jonathan/jobfit-assistant/internal/llm"
)

// KeyError reports why no usable API key could be produced for a provider.
type KeyError struct {
	Provider llm.Provider
	Message  string
	Cause    error
}

func (e *KeyError) Error() string {
	return e.Message
}

func (e *KeyError) Unwrap() error {
	return e.Cause
}

// Key error messages.
const (
	MsgPassphraseRequired = "Passphrase is required to decrypt the saved API key."
	MsgDecryptFailed      = "Failed to decrypt API key. Please verify your passphrase."
)

// ResolveAPIKey returns the key for p. A key in the environment wins;
// otherwise the stored encrypted key is opened with passphrase.
func (c *Config) ResolveAPIKey(p llm.Provider, passphrase string) (string, error) {
	if key := EnvAPIKey(p); key != "" {
		return key, nil
	}

	enc := c.Providers.Get(p).APIKeyEncrypted
	if enc == nil {
		return "", &KeyError{
			Provider: p,
			Message:  fmt.Sprintf("No API key is set for %s. Run `jobfit_agent encrypt-key` or set %s.", p, EnvAPIKeyVar(p)),
		}
	}

	passphrase = strings.TrimSpace(passphrase)
	if passphrase == "" {
		return "", &KeyError{Provider: p, Message: MsgPassphraseRequired}
	}

	key, err := DecryptSecret(enc, passphrase)
	if err != nil {
		return "", &KeyError{Provider: p, Message: MsgDecryptFailed, Cause: err}
	}
	return key, nil
}

// StoreAPIKey encrypts key with passphrase and stores it for p.
func (c *Config) StoreAPIKey(p llm.Provider, key, passphrase string) error {
	if !p.Valid() {
		return fmt.Errorf("unsupported provider %q", p)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key is empty")
	}
	if strings.TrimSpace(passphrase) == "" {
		return &KeyError{Provider: p, Message: "Passphrase is required to encrypt the API key."}
	}

	enc, err := EncryptSecret(key, strings.TrimSpace(passphrase))
	if err != nil {
		return err
	}
	pc := c.Providers.Get(p)
	pc.APIKeyEncrypted = enc
	return c.Providers.Set(p, pc)
}
