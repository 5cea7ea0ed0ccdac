package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/llm"
)

var encryptKeyCmd = &cobra.Command{
	Use:   "encrypt-key",
	Short: "Encrypt a provider API key into the settings file",
	Long: `Encrypt an API key with a passphrase (PBKDF2 + AES-GCM) and store it in the settings
file. When --key is omitted the key is read from the first line of stdin.`,
	RunE: runEncryptKey,
}

var (
	encryptProvider   string
	encryptKey        string
	encryptPassphrase string
	encryptActivate   bool
)

func init() {
	encryptKeyCmd.Flags().StringVarP(&encryptProvider, "provider", "p", "", "Provider the key belongs to (openai, gemini, grok)")
	encryptKeyCmd.Flags().StringVarP(&encryptKey, "key", "k", "", "API key (default: read from stdin)")
	encryptKeyCmd.Flags().StringVar(&encryptPassphrase, "passphrase", "", "Passphrase used to encrypt the key (default $JOBFIT_PASSPHRASE)")
	encryptKeyCmd.Flags().BoolVar(&encryptActivate, "activate", false, "Also make this provider the active one")

	_ = encryptKeyCmd.MarkFlagRequired("provider")

	rootCmd.AddCommand(encryptKeyCmd)
}

func runEncryptKey(cmd *cobra.Command, _ []string) error {
	p, err := llm.ParseProvider(encryptProvider)
	if err != nil {
		return err
	}

	key := strings.TrimSpace(encryptKey)
	if key == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("no API key given: pass --key or pipe it on stdin")
		}
		key = strings.TrimSpace(line)
	}
	if key == "" {
		return fmt.Errorf("API key is empty")
	}

	passphrase := strings.TrimSpace(passphraseOr(encryptPassphrase))
	if passphrase == "" {
		return fmt.Errorf("%s", config.MsgPassphraseRequired)
	}

	cfg, path, err := loadSettings()
	if err != nil {
		return err
	}
	if err := cfg.StoreAPIKey(p, key, passphrase); err != nil {
		return err
	}
	if encryptActivate {
		cfg.ActiveProvider = p
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	logger.WithField("provider", p).WithField("path", path).Debug("Stored encrypted API key")
	fmt.Fprintf(cmd.OutOrStdout(), "Encrypted %s API key saved to %s\n", p.DisplayName(), path)
	return nil
}
