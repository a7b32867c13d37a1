package cli

import (
	"github.com/spf13/cobra"
)

// CollectFlags holds collect command flags
type CollectFlags struct {
	Limit int
}

var collectFlags CollectFlags

// NewCollectCommand creates the collect command, which scrapes the listing
// page and saves the discovered model URLs without processing them.
func NewCollectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect model URLs from the listing page",
		Long: `Scrape the filtered model listing with a headless browser, follow the
infinite scroll until it is exhausted, and save the discovered model URLs
to the configured URL list file.`,
		RunE: runCollect,
	}

	cmd.Flags().IntVarP(&collectFlags.Limit, "limit", "n", 0, "maximum number of URLs to collect (0 = unlimited)")
	return cmd
}

func runCollect(cmd *cobra.Command, args []string) error {
	application, err := setupApp()
	if err != nil {
		return err
	}
	defer application.close()

	ctx, cancel := signalContext()
	defer cancel()

	urls, err := application.orchestrator.CollectURLs(ctx, collectFlags.Limit)
	if err != nil {
		return err
	}
	application.logger.Info().Int("count", len(urls)).Msg("URL collection complete")
	return nil
}
