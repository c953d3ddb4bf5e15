package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
)

func newNetworkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "network on|off",
		Short: "Tell the router whether the network is available",
		Long: `Tell the router whether the network is available. With the network
off, hybrid routing falls back to the local model for every request.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE:      runNetwork,
	}
}

func runNetwork(cmd *cobra.Command, args []string) error {
	var available bool
	switch args[0] {
	case "on":
		available = true
	case "off":
		available = false
	default:
		return fmt.Errorf("expected 'on' or 'off', got %q", args[0])
	}

	c := client.New(getServerURL())
	if err := c.SetNetwork(cmd.Context(), available); err != nil {
		return fmt.Errorf("set network: %w", err)
	}

	if available {
		printOK("Network marked available")
	} else {
		printWarn("Network marked unavailable; routing is local-only until restored")
	}
	return nil
}
