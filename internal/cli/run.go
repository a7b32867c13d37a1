package cli

import (
	"github.com/spf13/cobra"
)

// RunFlags holds run command flags
type RunFlags struct {
	Limit int
}

var runFlags RunFlags

// NewRunCommand creates the run command, the full collect-then-process
// pipeline in one shot.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collect URLs and process every model",
		RunE:  runRun,
	}

	cmd.Flags().IntVarP(&runFlags.Limit, "limit", "n", 0, "maximum number of models to process (0 = unlimited)")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	application, err := setupApp()
	if err != nil {
		return err
	}
	defer application.close()

	ctx, cancel := signalContext()
	defer cancel()

	return application.orchestrator.Run(ctx, runFlags.Limit)
}
