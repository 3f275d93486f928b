package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/adapters/driven/storage/filesystem"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
)

var processWatch bool

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process source documents into published chunk records",
	Long: `Runs the pipeline over every PDF in the source container:
extract text, redact identifying details, split into chunks, annotate
with key phrases and medical entities, and publish one JSON record per
document to the processed container.

With --watch the command keeps running after the initial pass and
processes PDFs as they appear in the source directory (filesystem
storage only).`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVarP(&processWatch, "watch", "w", false, "keep watching the source directory for new documents")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	if err := bootstrapPipeline(); err != nil {
		return err
	}
	if batchRunner == nil {
		return errors.New("pipeline not configured")
	}

	ctx := cmd.Context()
	summary, err := batchRunner.Run(ctx)
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	if summary.Empty() {
		cmd.Println("No documents to process.")
	} else {
		cmd.Printf("Processed %d/%d documents (%d skipped, %d failed).\n",
			summary.Processed, summary.Attempted, summary.Skipped, summary.Failed)
	}

	if !processWatch {
		return nil
	}
	return watchSource(ctx)
}

// watchSource processes documents as they land in the source
// directory, until the context is cancelled.
func watchSource(ctx context.Context) error {
	if watchDir == "" {
		return errors.New("--watch requires filesystem storage (set MEDPIPE_DATA_DIR)")
	}
	if docProcessor == nil {
		return errors.New("pipeline not configured")
	}

	watcher := filesystem.NewWatcher(watchDir)
	err := watcher.Run(ctx, func(name string) {
		if _, err := docProcessor.Process(ctx, name); err != nil {
			logger.Error("could not process %s: %v", name, err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
