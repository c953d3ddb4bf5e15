package cli

import (
	"github.com/spf13/cobra"
)

var (
	flagServerURL string
	flagConfig    string
	flagVerbose   bool
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orion",
		Short: "Personal health record assistant",
		Long: `OrionHealth - Personal health record assistant.

Record health observations, search them with adaptive retrieval
strategies, and generate period summaries from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "server URL (default http://localhost:8430)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.orionhealth/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "V", false, "verbose output")

	// Management commands
	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newModelsCmd())

	// Record commands
	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newDeleteCmd())

	// Retrieval commands
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newExplainCmd())

	// Summary and routing commands
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newUsageCmd())
	rootCmd.AddCommand(newNetworkCmd())

	return rootCmd
}

func Execute(version string) error {
	return NewRootCmd(version).Execute()
}
