package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jarrod-feld/Youtuber-Scaper/internal"
)

// fetchTranscript resolves a transcript for the given argument, honoring
// the --fallback-whisper flag for the audio tier. Without the flag the
// user is asked before Whisper spends money.
func fetchTranscript(cmd *cobra.Command, app *internal.App, arg string) (internal.TranscriptResult, error) {
	fallbackWhisper, _ := cmd.Flags().GetBool("fallback-whisper")
	if fallbackWhisper {
		if err := internal.ValidateOpenAIAPIKey(config.OpenAIAPIKey); err != nil {
			return internal.TranscriptResult{}, err
		}
	}

	_, videoID := internal.ParseArg(arg)
	result := app.ResolveInteractive(cmd.Context(), internal.VideoReference{ID: videoID}, fallbackWhisper)
	if !result.OK() {
		return result, fmt.Errorf("no transcript available for %s: %s", videoID, result.Failure)
	}

	return result, nil
}
