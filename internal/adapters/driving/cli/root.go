// Package cli wires the cobra command tree over the pipeline
// services. Collaborators are built from configuration on first use
// so that version and help never require credentials.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "medpipe",
	Short: "Medical document processing pipeline",
	Long: `Medpipe turns PDF medical documents into a searchable index.

Documents are pulled from the source container, their text extracted,
identifying details redacted, the text chunked and annotated with key
phrases and medical entities, and the result published as one JSON
record per document. The reindex command uploads published records
into the search index.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under the given context, so
// watch mode and in-flight requests stop on interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
