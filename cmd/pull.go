package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LiboWorks/agentflow/internal/config"
	"github.com/LiboWorks/agentflow/internal/downloader"
)

var pullDir string

// pullCmd represents the pull command
var pullCmd = &cobra.Command{
	Use:   "pull <url> <target-file>",
	Short: "Download a GGUF model into the models directory",
	Long: `Downloads a model file, typically from Hugging Face. Gated repositories
are supported by setting HUGGINGFACE_TOKEN in the environment. Existing
files are kept, so pulling is safe to repeat.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		url, target := args[0], args[1]

		fmt.Printf("📦 Downloading %s\n", target)
		path, err := downloader.Download(cmd.Context(), url, pullDir, target)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Model available at %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
	pullCmd.Flags().StringVarP(&pullDir, "dir", "d", config.DefaultModelsDir, "Target directory")
}
