package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Upload published chunk records into the search index",
	Long: `Reads every published record from the processed container and
upserts its chunks into the search index. Safe to re-run: entries are
keyed by chunk id and replaced in place.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if err := bootstrapIndexer(); err != nil {
		return err
	}
	if reindexer == nil {
		return errors.New("indexer not configured")
	}

	summary, err := reindexer.Reindex(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	if summary.Prepared == 0 {
		cmd.Println("No records to index.")
		return nil
	}
	cmd.Printf("Indexed %d chunks from %d records (%d records skipped, %d chunks failed).\n",
		summary.Prepared-len(summary.FailedIDs), summary.Artifacts,
		summary.SkippedArtifacts, len(summary.FailedIDs))
	return nil
}
