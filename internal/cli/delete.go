package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Permanently delete a record",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	c := client.New(getServerURL())
	if err := c.DeleteNode(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	printOK(fmt.Sprintf("Record deleted: %s", args[0]))
	return nil
}
