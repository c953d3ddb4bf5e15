package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search health records",
		Long: `Search health records under a ranking strategy.

With --hops the matching base records are expanded with the period
summaries that transitively include them.`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}
	cmd.Flags().StringP("strategy", "s", "", "Ranking strategy (bm25|recency|diversity|mmr)")
	cmd.Flags().IntP("limit", "l", 0, "Maximum number of results")
	cmd.Flags().Int("hops", 0, "Expand hits with summary context up to N hops")
	cmd.Flags().Int("top-k", 0, "Number of hits to expand (with --hops)")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	strategy, _ := cmd.Flags().GetString("strategy")
	limit, _ := cmd.Flags().GetInt("limit")
	hops, _ := cmd.Flags().GetInt("hops")
	topK, _ := cmd.Flags().GetInt("top-k")

	c := client.New(getServerURL())

	if hops > 0 {
		result, err := c.MultiHopSearch(cmd.Context(), client.SearchRequest{
			Query:    args[0],
			Strategy: strategy,
			MaxHops:  hops,
			TopK:     topK,
		})
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		printMultiHopHits(result.Results)
		return nil
	}

	result, err := c.Search(cmd.Context(), client.SearchRequest{
		Query:    args[0],
		Strategy: strategy,
		Limit:    limit,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if flagVerbose {
		printInfo("Strategy: " + result.Strategy)
	}
	printIDList(result.Results)
	return nil
}
