package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools available to workflows",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		registry, err := buildTools()
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		for _, name := range registry.Names() {
			t := registry.Lookup(name)
			fmt.Printf("🔧 %s: %s\n", t.Name(), t.Description())
		}
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
