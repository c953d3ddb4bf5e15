package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare QUERY",
		Short: "Run one query under every ranking strategy",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompare,
	}
	cmd.Flags().IntP("limit", "l", 0, "Maximum number of results per strategy")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	c := client.New(getServerURL())
	result, err := c.CompareStrategies(cmd.Context(), client.SearchRequest{
		Query: args[0],
		Limit: limit,
	})
	if err != nil {
		return fmt.Errorf("compare strategies: %w", err)
	}

	strategies := make([]string, 0, len(result.Results))
	for s := range result.Results {
		strategies = append(strategies, s)
	}
	sort.Strings(strategies)

	for _, s := range strategies {
		printHeader(s)
		printIDList(result.Results[s])
	}
	return nil
}
