package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "agentflow",
	Short: "Run agentic LLM workflows defined in YAML",
	Long: `agentflow runs declarative YAML workflows that let an LLM call tools
in a loop until it produces a final answer.

Features:
  - Define agent workflows in YAML with a state transition table
  - Tool calling with JSON Schema validated inputs
  - OpenAI-compatible APIs and local GGUF models via llama.cpp
  - Run multiple workflows in parallel with cross-workflow handoff

Examples:
  agentflow run workflow.yaml -p "What's the weather in Berlin?"
  agentflow validate workflow.yaml`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
