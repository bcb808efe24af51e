package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jarrod-feld/Youtuber-Scaper/internal"
)

// transcribeCmd represents the transcribe command
var transcribeCmd = &cobra.Command{
	Use:   "transcribe [YouTube URL or ID]",
	Short: "Get a transcript for a single video (cached or downloaded)",
	Example: `  # Get transcript from YouTube captions
  ytscraper transcribe "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytscraper transcribe tAP1eZYEuKA

  # Save transcript to file
  ytscraper transcribe tAP1eZYEuKA -o transcript.txt

  # Use Whisper if no captions available (costs money)
  ytscraper transcribe tAP1eZYEuKA --fallback-whisper`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := internal.NewApp(config)

		result, err := fetchTranscript(cmd, app, args[0])
		if err != nil {
			return err
		}

		if config.Verbose {
			fmt.Fprintf(os.Stderr, "Transcript source: %s\n", result.Source)
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(result.Text), 0644)
		}

		fmt.Println(result.Text)
		return nil
	},
}

func init() {
	internal.AddTranscriptionFlags(transcribeCmd)
	transcribeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(transcribeCmd)
}
