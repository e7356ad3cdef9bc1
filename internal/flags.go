package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddGenerationFlags adds flags shared by commands that call the model
func AddGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "Gemini model to use for generation")
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose
	return nil
}

// ResolveModelFlag returns the model to use for this invocation: the --model
// flag when set, otherwise the configured default. Either way the model must
// be on the supported list.
func ResolveModelFlag(cmd *cobra.Command, config *Config) (string, error) {
	modelFlag, _ := cmd.Flags().GetString("model")
	if modelFlag != "" {
		if err := ValidateModel(modelFlag); err != nil {
			return "", err
		}
		return modelFlag, nil
	}
	if err := ValidateModel(config.Model); err != nil {
		return "", fmt.Errorf("invalid model in config: %w", err)
	}
	return config.Model, nil
}

// ValidateGeminiRequirements validates the API key and model from command
// flags and config before any generation command runs.
func ValidateGeminiRequirements(cmd *cobra.Command, config *Config) error {
	if err := ValidateAPIKey(config.GeminiAPIKey); err != nil {
		return err
	}
	_, err := ResolveModelFlag(cmd, config)
	return err
}
