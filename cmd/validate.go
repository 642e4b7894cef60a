package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LiboWorks/agentflow/internal/workflow"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <workflow-file>",
	Short: "Validate a workflow file without running it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		workflowFile := args[0]

		wfs, err := workflow.LoadWorkflows(workflowFile)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		for _, wf := range wfs {
			fmt.Printf("✅ %s\n", wf.Name)
			fmt.Printf("   provider: %s\n", orDefault(wf.Provider, "(default)"))
			fmt.Printf("   tools: %v\n", wf.Tools)
			fmt.Printf("   transitions: %d (%s → %s)\n", len(wf.Transitions), wf.Initial, wf.Terminal)
			if wf.WaitFor != "" {
				fmt.Printf("   waits for: %s\n", wf.WaitFor)
			}
		}
		fmt.Printf("📋 %d workflow(s) valid\n", len(wfs))
	},
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
