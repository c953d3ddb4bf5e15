package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
)

func newUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show model routing state and cloud token usage",
		RunE:  runUsage,
	}
	cmd.Flags().Bool("reset", false, "Reset the cloud usage counters")
	return cmd
}

func runUsage(cmd *cobra.Command, args []string) error {
	reset, _ := cmd.Flags().GetBool("reset")

	c := client.New(getServerURL())
	if reset {
		if err := c.ResetUsage(cmd.Context()); err != nil {
			return fmt.Errorf("reset usage: %w", err)
		}
		printOK("Usage counters reset")
	}

	report, err := c.GetUsage(cmd.Context())
	if err != nil {
		return fmt.Errorf("get usage: %w", err)
	}

	printUsage(report)
	return nil
}
