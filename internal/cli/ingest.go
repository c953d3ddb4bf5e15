package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [CONTENT]",
		Short: "Record a health observation",
		Long: `Record a health observation as a base-layer node.

Content can be provided as an argument or piped from stdin:
  orion ingest "Mild headache since this morning" --type symptom
  cat readings.txt | orion ingest --type vital_sign`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,
	}
	cmd.Flags().StringP("type", "t", "general", "Record type (symptom|diagnosis|medication|vital_sign|general)")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	content := ""
	if len(args) > 0 {
		content = args[0]
	}
	recordType, _ := cmd.Flags().GetString("type")

	// Read content from stdin if not provided
	if content == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			scanner := bufio.NewScanner(os.Stdin)
			var lines []string
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
			}
			content = strings.Join(lines, "\n")
		}
	}

	if content == "" {
		return fmt.Errorf("no content provided")
	}

	c := client.New(getServerURL())
	id, err := c.Ingest(cmd.Context(), client.IngestRequest{
		Content:    content,
		RecordType: recordType,
	})
	if err != nil {
		return fmt.Errorf("ingest record: %w", err)
	}

	printOK(fmt.Sprintf("Record stored: %s", id))
	return nil
}
