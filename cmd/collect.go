package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jarrod-feld/Youtuber-Scaper/internal"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect transcripts for every URL in the input file",
	Long: `Read channel/playlist URLs from the input file (one per line) and
collect a transcript for every video they contain. Each video becomes one
JSONL record in the dataset; a video failing both acquisition tiers
produces a failure record and the run continues.`,
	Example: `  # Collect everything listed in channels.txt (the default input file)
  ytscraper collect

  # Use a different input list and dataset file
  ytscraper collect --input research-channels.txt --dataset research.jsonl

  # Transcribe videos without captions using Whisper (costs money)
  ytscraper collect --fallback-whisper`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateWhisperRequirements(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)

		inputFile, _ := cmd.Flags().GetString("input")
		if inputFile == "" {
			inputFile = config.InputFile
		}

		writer, err := internal.OpenDataset(internal.DatasetPath(cmd, config))
		if err != nil {
			return err
		}
		defer writer.Close()

		fallbackWhisper, _ := cmd.Flags().GetBool("fallback-whisper")
		stats, err := app.CollectInputFile(cmd.Context(), inputFile, writer, fallbackWhisper)
		if err != nil {
			return err
		}

		printStats(stats)
		return nil
	},
}

func init() {
	internal.AddTranscriptionFlags(collectCmd)
	internal.AddDatasetFlags(collectCmd)
	collectCmd.Flags().StringP("input", "i", "", "File with channel/playlist URLs, one per line (default from config)")
	rootCmd.AddCommand(collectCmd)
}
