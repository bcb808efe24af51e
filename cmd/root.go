package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jarrod-feld/Youtuber-Scaper/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytscraper [channel, playlist or video URL]",
	Short: "Collect YouTube transcripts and research papers into a dataset",
	Long: `ytscraper builds flat JSONL datasets for model fine-tuning.

Given a channel, playlist or video it resolves a transcript for every
video: YouTube captions when available, otherwise (with --fallback-whisper)
by downloading the audio and transcribing it with OpenAI Whisper. Each
video becomes one dataset record; videos that fail both tiers produce a
failure record instead of aborting the run.

Research papers from arXiv, Semantic Scholar and PubMed can be collected
into the same dataset with the papers command.`,
	Example: `  # Collect every video of a channel into the dataset
  ytscraper "https://www.youtube.com/channel/UC2D2CMWXMOVWx7giW1n3LIg"

  # Collect a playlist, transcribing videos without captions (costs money)
  ytscraper "https://www.youtube.com/playlist?list=PLlaN88a7y2_plecYoJxvRFTLHVbIVAOoc" --fallback-whisper

  # Collect a single video into a specific dataset file
  ytscraper tAP1eZYEuKA --dataset data/dataset.jsonl

  # Collect every URL listed in channels.txt
  ytscraper collect --input channels.txt`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateWhisperRequirements(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)

		writer, err := internal.OpenDataset(internal.DatasetPath(cmd, config))
		if err != nil {
			return err
		}
		defer writer.Close()

		fallbackWhisper, _ := cmd.Flags().GetBool("fallback-whisper")
		stats, err := app.CollectURL(cmd.Context(), args[0], writer, fallbackWhisper)
		if err != nil {
			return err
		}

		printStats(stats)
		return nil
	},
}

// printStats reports a collection run unless quiet is set
func printStats(stats internal.CollectStats) {
	if config.Quiet {
		return
	}
	fmt.Printf("Collected %d videos: %d from captions, %d from audio transcription, %d failed\n",
		stats.Videos, stats.FromCaptions, stats.FromAudio, stats.Failed)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal. Cleaning up and shutting down...")

		// Cancel the main context to signal all operations to stop
		cancel()

		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cleanupCancel()

		cleanupDone := make(chan struct{})
		go func() {
			if err := internal.CleanupTempDir(config.TempDir); err != nil {
				fmt.Fprintf(os.Stderr, "Error cleaning up temporary files: %v\n", err)
			}
			close(cleanupDone)
		}()

		select {
		case <-cleanupDone:
		case <-cleanupCtx.Done():
			fmt.Fprintln(os.Stderr, "Warning: Cleanup timed out, forcing exit")
		}

		os.Exit(0)
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddTranscriptionFlags(rootCmd)
	internal.AddDatasetFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress and status output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/ytscraper/config.toml)")
}
