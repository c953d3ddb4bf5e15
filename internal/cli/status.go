package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server status and model routing state",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	printHeader("OrionHealth Status")

	c := client.New(getServerURL())
	if err := c.Health(cmd.Context()); err != nil {
		printFail(fmt.Sprintf("Server unreachable at %s", getServerURL()))
		return nil
	}
	printOK(fmt.Sprintf("Server healthy at %s", getServerURL()))

	report, err := c.GetUsage(cmd.Context())
	if err == nil {
		fmt.Printf("    Routing: %s, network %s\n",
			report.Strategy, map[bool]string{true: "available", false: "unavailable"}[report.NetworkAvailable])
		fmt.Printf("    Cloud requests this period: %d (%d tokens)\n",
			report.Usage.RequestsCount, report.Usage.TotalTokens)
	}

	models, err := c.ListModels(cmd.Context())
	if err == nil {
		fmt.Printf("    Local models downloaded: %d\n", len(models))
	}

	fmt.Println()
	return nil
}
