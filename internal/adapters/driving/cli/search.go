package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search the local index",
	Long: `Searches indexed chunks in the local SQLite index. Only available
when no remote search endpoint is configured.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := bootstrapSearcher(); err != nil {
		return err
	}
	if localSearcher == nil {
		return errors.New("search index not configured")
	}

	entries, err := localSearcher.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, entry := range entries {
		cmd.Printf("  [%d] %s (page %d)\n", i+1, entry.DocumentName, entry.PageNumber)
		cmd.Printf("      %s\n", entry.ChunkText)
		if len(entry.MedicalEntities) > 0 {
			cmd.Printf("      Entities: %v\n", entry.MedicalEntities)
		}
		cmd.Println()
	}
	return nil
}
