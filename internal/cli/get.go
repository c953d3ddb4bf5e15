package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a record by its ID",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	c := client.New(getServerURL())
	n, err := c.GetNode(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get record: %w", err)
	}

	printNode(n)
	return nil
}
