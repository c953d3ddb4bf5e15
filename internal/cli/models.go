package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orionhealth/hirag/internal/client"
	"github.com/orionhealth/hirag/internal/llm"
)

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List downloaded local models",
		RunE:  runModels,
	}
	cmd.AddCommand(newModelsDownloadCmd())
	return cmd
}

func runModels(cmd *cobra.Command, args []string) error {
	c := client.New(getServerURL())
	models, err := c.ListModels(cmd.Context())
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}

	printModels(models)
	return nil
}

func newModelsDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download MODEL_ID",
		Short: "Download a model into the local cache",
		Long: `Download a model file into the local cache directory. The download
runs in this process, not on the server; point --dir at the same
directory the server is configured with.`,
		Args: cobra.ExactArgs(1),
		RunE: runModelsDownload,
	}
	cmd.Flags().String("dir", "", "Models directory (default ~/.orionhealth/models)")
	return cmd
}

func runModelsDownload(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = defaultModelsDir()
	}

	mgr := llm.NewModelManager(dir)
	if err := mgr.Init(); err != nil {
		return err
	}

	printInfo(fmt.Sprintf("Downloading %s to %s", args[0], dir))
	path, err := mgr.Download(cmd.Context(), args[0], func(p llm.DownloadProgress) {
		if p.TotalBytes > 0 {
			fmt.Printf("\r  %.1f%% (%.1f / %.1f GB)",
				p.Percentage,
				float64(p.DownloadedBytes)/(1<<30),
				float64(p.TotalBytes)/(1<<30))
		} else {
			fmt.Printf("\r  %.1f GB", float64(p.DownloadedBytes)/(1<<30))
		}
	})
	fmt.Println()
	if err != nil {
		return fmt.Errorf("download model: %w", err)
	}

	printOK("Model ready: " + path)
	return nil
}
