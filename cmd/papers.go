package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jarrod-feld/Youtuber-Scaper/internal"
)

// papersCmd represents the papers command
var papersCmd = &cobra.Command{
	Use:   "papers [query]",
	Short: "Collect research paper metadata from arXiv, Semantic Scholar and PubMed",
	Long: `Search academic databases and append one dataset record per paper.
Sources are queried one after another; a failing source is reported and
skipped without hiding results from the others.`,
	Example: `  # Search all sources and append the results to the dataset
  ytscraper papers "speech recognition"

  # Limit per-source results and pick sources
  ytscraper papers "transformer models" --limit 5 --sources arxiv,pubmed

  # Render the results in the terminal instead of writing the dataset
  ytscraper papers "whisper transcription" --render`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := internal.NewApp(config)

		sourceNames, _ := cmd.Flags().GetStringSlice("sources")
		sources, err := app.PaperSources(sourceNames)
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		render, _ := cmd.Flags().GetBool("render")

		var writer *internal.DatasetWriter
		if !render {
			writer, err = internal.OpenDataset(internal.DatasetPath(cmd, config))
			if err != nil {
				return err
			}
			defer writer.Close()
		}

		papers, err := app.CollectPapers(cmd.Context(), sources, args[0], limit, writer)
		if err != nil {
			return err
		}

		if render {
			rendered, err := internal.RenderMarkdown(internal.RenderPaperList(papers))
			if err != nil {
				return err
			}
			fmt.Print(rendered)
			return nil
		}

		if !config.Quiet {
			fmt.Printf("Collected %d papers\n", len(papers))
		}
		return nil
	},
}

func init() {
	internal.AddDatasetFlags(papersCmd)
	papersCmd.Flags().IntP("limit", "l", 10, "Maximum results per source")
	papersCmd.Flags().StringSlice("sources", []string{"arxiv", "semantic-scholar", "pubmed"}, "Paper sources to query")
	papersCmd.Flags().Bool("render", false, "Render results in the terminal instead of writing the dataset")
	rootCmd.AddCommand(papersCmd)
}
