package main

import (
	"os"

	"github.com/spf13/cobra"

	"orderkit/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries state shared by the subcommands.
type cli struct {
	verbose bool
	log     *logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "orderctl",
		Short: "Read and convert CSV records, create orders",
		Long: `orderctl works with the same building blocks as the orderkit API.

CSV files are read with the first line as headers and plain comma splitting.
Orders get their delivery time from the customer's subscription tier.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logger.LevelWarn
			if c.verbose {
				level = logger.LevelDebug
			}
			c.log = logger.New(cmd.ErrOrStderr(), level, "orderctl", nil)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.recordsCmd(), c.ordersCmd())
	return root
}
