package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errSettingsNotConfigured = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and edit configuration",
	Long: `View and edit the configuration file.

Values are resolved from built-in defaults, then the config file, then
the environment (including a .env file), then command-line flags.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration file value",
	Long: `Validates and stores one value in the configuration file.

Example:
  librarian settings set search.top_k 8
  librarian settings set speech.voice nova`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	cmd.Println("Effective Settings")
	cmd.Println("==================")
	cmd.Println()
	cmd.Printf("Dataset:       %s\n", config.DataFile)
	cmd.Printf("Index:         %s (%s)\n", config.Index.Dir, config.Collection())
	cmd.Printf("Embedding:     %s / %s\n", config.Embedding.Provider.Description(), config.Embedding.Model)
	if config.Search.UseLLM {
		cmd.Printf("Judge:         %s / %s\n", config.LLM.Provider.Description(), config.LLM.Model)
	} else {
		cmd.Println("Judge:         off (best score)")
	}
	cmd.Printf("Top-k:         %d\n", config.Search.TopK)
	cmd.Printf("Moderation:    %s\n", moderationMode())
	cmd.Printf("Speech:        %s (voice %s)\n", onOff(config.Speech.Enabled), config.Speech.Voice.OrDefault())
	cmd.Printf("Covers:        %s (%s)\n", onOff(config.Image.Enabled), config.Image.Style)
	cmd.Printf("Output dir:    %s\n", config.OutputDir)
	if config.APIKey != "" {
		cmd.Printf("OpenAI key:    %s\n", maskAPIKey(config.APIKey))
	} else {
		cmd.Println("OpenAI key:    not set")
	}

	cmd.Println()
	cmd.Printf("Config file: %s\n", settingsService.Path())
	entries := settingsService.Entries()
	if len(entries) == 0 {
		cmd.Println("  (no values set)")
		return nil
	}
	for _, key := range settingsService.Keys() {
		v, ok := entries[key]
		if !ok {
			continue
		}
		cmd.Printf("  %s = %s\n", key, displayValue(key, v))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %s\n", key, displayValue(key, value))
	return nil
}

func moderationMode() string {
	switch {
	case !config.Moderation.Enabled:
		return "off"
	case config.Moderation.Block:
		return "blocking"
	default:
		return "notice only"
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func displayValue(key string, v any) string {
	s := fmt.Sprint(v)
	if strings.HasSuffix(key, "api_key") {
		return maskAPIKey(s)
	}
	return s
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
