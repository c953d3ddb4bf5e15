package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Generate a period summary of your health records",
		Long: `Generate a summary over the trailing period. With enough records and
an available model the summary is also stored in the hierarchy as a
higher-layer node.`,
		RunE: runSummary,
	}
	cmd.Flags().StringP("period", "p", "weekly", "Summary period (weekly|monthly|quarterly)")
	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	period, _ := cmd.Flags().GetString("period")

	c := client.New(getServerURL())
	report, err := c.GenerateSummary(cmd.Context(), client.SummaryRequest{SummaryType: period})
	if err != nil {
		return fmt.Errorf("generate summary: %w", err)
	}

	printSummaryReport(report)
	return nil
}
