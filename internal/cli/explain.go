package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
)

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "Describe the available ranking strategies",
		RunE:  runExplain,
	}
}

func runExplain(cmd *cobra.Command, args []string) error {
	c := client.New(getServerURL())
	explanations, err := c.ExplainStrategies(cmd.Context())
	if err != nil {
		return fmt.Errorf("explain strategies: %w", err)
	}

	strategies := make([]string, 0, len(explanations))
	for s := range explanations {
		strategies = append(strategies, s)
	}
	sort.Strings(strategies)

	for _, s := range strategies {
		fmt.Printf("  %s\n    %s\n", colorize(colorBold, s), explanations[s])
	}
	return nil
}
