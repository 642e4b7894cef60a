package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LiboWorks/agentflow/internal/config"
	"github.com/LiboWorks/agentflow/internal/document"
	"github.com/LiboWorks/agentflow/internal/pluginapi"
	"github.com/LiboWorks/agentflow/internal/provider"
	"github.com/LiboWorks/agentflow/internal/runtime"
	"github.com/LiboWorks/agentflow/internal/tool"
	"github.com/LiboWorks/agentflow/internal/workflow"
)

var (
	runPrompt  string
	runWorkers int
	runNoDocs  bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <workflow-file>",
	Short: "Run the workflows of a YAML file against a prompt",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		workflowFile := args[0]
		cfg := config.Get()

		logger := newLogger(cfg)
		defer logger.Sync()

		wfs, err := workflow.LoadWorkflows(workflowFile)
		if err != nil {
			fmt.Printf("❌ Failed to load workflows: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("📋 Loaded %d workflow(s) from %s\n", len(wfs), workflowFile)

		providers, err := provider.NewRegistryFromConfig(cfg, runWorkers)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		defer providers.Close()

		tools, err := buildTools()
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		var docs document.Store
		if !runNoDocs {
			docs, err = document.NewFileStore(cfg.DocsDir)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				os.Exit(1)
			}
			defer docs.Close()
		}

		runner, err := runtime.NewRunner(runtime.RunnerConfig{
			Providers: providers,
			Tools:     tools,
			Docs:      docs,
			Logger:    logger,
			MaxTurns:  cfg.MaxTurns,
		})
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		app := runtime.NewApp(runner, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		results, err := app.Run(ctx, wfs, runPrompt, nil)

		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			res := results[name]
			fmt.Printf("\n✅ %s (turns: %d, tool dispatches: %d)\n", name, res.Turns, res.Dispatches)
			fmt.Println(res.Answer)
		}
		if err != nil {
			fmt.Printf("\n❌ %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runPrompt, "prompt", "p", "", "User prompt to run the workflows against")
	runCmd.Flags().IntVar(&runWorkers, "workers", 1, "Worker processes for local inference (subprocess mode)")
	runCmd.Flags().BoolVar(&runNoDocs, "no-docs", false, "Disable conversation persistence")
	runCmd.MarkFlagRequired("prompt")
}

// newLogger builds a zap logger matching the diagnostics settings.
func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.DebugMode || cfg.Verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// buildTools assembles the tool registry, including pro extension tools.
func buildTools() (*tool.Registry, error) {
	tools := []tool.Tool{tool.NewWeather()}
	tools = append(tools, pluginapi.ExtraTools()...)
	return tool.NewRegistry(tools...)
}
