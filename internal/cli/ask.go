package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask QUERY",
		Short: "Search with automatic strategy selection",
		Long: `Search health records letting the server pick the ranking strategy
from the wording of the query, and include hierarchical context.`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}
	cmd.Flags().IntP("limit", "l", 0, "Maximum number of direct results")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	c := client.New(getServerURL())
	result, err := c.SmartSearch(cmd.Context(), client.SearchRequest{
		Query: args[0],
		Limit: limit,
	})
	if err != nil {
		return fmt.Errorf("smart search: %w", err)
	}

	printInfo(result.Explanation)
	fmt.Println()
	printIDList(result.DirectResults)
	if len(result.HierarchicalResults) > 0 {
		printHeader("Hierarchical context")
		printMultiHopHits(result.HierarchicalResults)
	}
	return nil
}
