package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddTranscriptionFlags adds flags related to transcript acquisition
func AddTranscriptionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("fallback-whisper", false, "Fallback to Whisper if no captions available (costs money)")
}

// AddDatasetFlags adds flags for the dataset output location
func AddDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("dataset", "d", "", "Dataset file to append records to (default from config)")
}

// DatasetPath returns the dataset path, preferring the flag over config
func DatasetPath(cmd *cobra.Command, config *Config) string {
	if path, _ := cmd.Flags().GetString("dataset"); path != "" {
		return path
	}
	return config.DatasetPath
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if quiet {
		config.Quiet = true
	}
	return nil
}

// ValidateWhisperRequirements checks the OpenAI key when the Whisper
// fallback is requested; without the fallback no key is needed
func ValidateWhisperRequirements(cmd *cobra.Command, config *Config) error {
	fallbackWhisper, _ := cmd.Flags().GetBool("fallback-whisper")
	if !fallbackWhisper {
		return nil
	}
	return ValidateOpenAIAPIKey(config.OpenAIAPIKey)
}
