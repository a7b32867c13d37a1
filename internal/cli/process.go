package cli

import (
	"path/filepath"

	"printgrab/internal/common"

	"github.com/spf13/cobra"
)

// ProcessFlags holds process command flags
type ProcessFlags struct {
	URLFile string
}

var processFlags ProcessFlags

// NewProcessCommand creates the process command, which works through a
// previously collected URL list.
func NewProcessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process models from a saved URL list",
		Long: `Load the model URL list saved by 'collect' and run the full per-model
pipeline: scrape details, download and verify files and images, and store
everything in the category output layout. Already processed URLs are
skipped, so an interrupted run can be resumed by running 'process' again.`,
		RunE: runProcess,
	}

	cmd.Flags().StringVarP(&processFlags.URLFile, "url-file", "f", "", "URL list file (default: configured url_list_file)")
	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	application, err := setupApp()
	if err != nil {
		return err
	}
	defer application.close()

	ctx, cancel := signalContext()
	defer cancel()

	listPath := processFlags.URLFile
	if listPath == "" {
		listPath = filepath.Join(application.config.StorageConfig.OutputBaseDir, application.config.StorageConfig.URLListFile)
	}

	urls, err := application.orchestrator.LoadURLList(listPath)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return common.NewError("no URLs found in %s, run 'collect' first", listPath)
	}

	if err := application.orchestrator.ProcessModels(ctx, urls); err != nil {
		return err
	}
	return application.orchestrator.ExportAggregates()
}
