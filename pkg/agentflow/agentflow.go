// Package agentflow provides a public API for running agentic LLM workflows.
//
// A workflow lets an LLM call tools in a loop: the model either requests a
// tool, whose result is fed back into the conversation, or produces the
// final answer.
//
// Basic usage:
//
//	results, err := agentflow.RunFile(ctx, "workflow.yaml", "What's the weather in Berlin?", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(results[0].Answer)
//
// Programmatic workflow construction:
//
//	wf := agentflow.NewWorkflow("weather").
//	    WithProvider("openai").
//	    WithTools("GetWeather").
//	    WithSystem("You are a terse weather assistant.")
//
//	results, err := agentflow.Run(ctx, []*agentflow.Workflow{wf}, "Weather in Berlin?", nil)
package agentflow

import (
	"context"

	"github.com/LiboWorks/agentflow/internal/config"
	"github.com/LiboWorks/agentflow/internal/document"
	"github.com/LiboWorks/agentflow/internal/pluginapi"
	"github.com/LiboWorks/agentflow/internal/provider"
	"github.com/LiboWorks/agentflow/internal/runtime"
	"github.com/LiboWorks/agentflow/internal/tool"
	"github.com/LiboWorks/agentflow/internal/workflow"
)

// RunOptions configures a run.
type RunOptions struct {
	// Vars seed the template variables available to prompts and
	// transition conditions.
	Vars map[string]string

	// MaxTurns overrides the turn limit for workflows that do not set
	// their own. 0 keeps the configured default.
	MaxTurns int

	// DocsDir is where conversations are persisted as JSON lines.
	// Empty keeps the configured default directory.
	DocsDir string

	// Persist enables conversation persistence.
	Persist bool

	// Workers sizes the worker pool for local inference in subprocess
	// mode. 0 means one worker.
	Workers int
}

// RunResult is the outcome of one workflow.
type RunResult struct {
	// Workflow is the workflow's name.
	Workflow string

	// Answer is the text of the final assistant message.
	Answer string

	// Path lists the visited states in order.
	Path []string

	// Turns counts LLM generations, Dispatches counts tool executions.
	Turns      int
	Dispatches int
}

// RunFile runs every workflow in a YAML file against a prompt.
//
// The file can contain multiple workflow definitions separated by YAML
// document markers (---); they run concurrently.
//
// Example:
//
//	results, err := agentflow.RunFile(ctx, "workflow.yaml", "Weather in Berlin?", &agentflow.RunOptions{
//	    MaxTurns: 4,
//	})
func RunFile(ctx context.Context, inputPath, prompt string, opts *RunOptions) ([]*RunResult, error) {
	wfs, err := workflow.LoadWorkflows(inputPath)
	if err != nil {
		return nil, err
	}
	return runInternal(ctx, wfs, prompt, opts)
}

// Run runs programmatically constructed workflows against a prompt.
// For YAML files, use RunFile instead.
func Run(ctx context.Context, workflows []*Workflow, prompt string, opts *RunOptions) ([]*RunResult, error) {
	internalWfs := make([]workflow.Workflow, len(workflows))
	for i, wf := range workflows {
		internalWfs[i] = wf.toInternal()
		if err := internalWfs[i].Validate(); err != nil {
			return nil, err
		}
	}
	return runInternal(ctx, internalWfs, prompt, opts)
}

// LoadWorkflows loads and parses workflow definitions from a YAML file
// without running them. Useful for inspection or modification.
//
// Example:
//
//	workflows, err := agentflow.LoadWorkflows("workflow.yaml")
//	for _, wf := range workflows {
//	    fmt.Printf("Workflow: %s (%d transitions)\n", wf.Name, len(wf.Transitions))
//	}
func LoadWorkflows(inputPath string) ([]*Workflow, error) {
	wfs, err := workflow.LoadWorkflows(inputPath)
	if err != nil {
		return nil, err
	}

	result := make([]*Workflow, len(wfs))
	for i, wf := range wfs {
		result[i] = fromInternalWorkflow(wf)
	}
	return result, nil
}

// Validate checks a workflow for errors without running it.
func Validate(wf *Workflow) error {
	internal := wf.toInternal()
	return internal.Validate()
}

// Tools returns the names of the available tools, including any registered
// by a pro extension.
func Tools() ([]string, error) {
	registry, err := toolRegistry()
	if err != nil {
		return nil, err
	}
	return registry.Names(), nil
}

func runInternal(ctx context.Context, wfs []workflow.Workflow, prompt string, opts *RunOptions) ([]*RunResult, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	cfg := config.Get()

	providers, err := provider.NewRegistryFromConfig(cfg, opts.Workers)
	if err != nil {
		return nil, err
	}
	defer providers.Close()

	tools, err := toolRegistry()
	if err != nil {
		return nil, err
	}

	var docs document.Store
	if opts.Persist {
		dir := opts.DocsDir
		if dir == "" {
			dir = cfg.DocsDir
		}
		docs, err = document.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		defer docs.Close()
	}

	runner, err := runtime.NewRunner(runtime.RunnerConfig{
		Providers: providers,
		Tools:     tools,
		Docs:      docs,
		MaxTurns:  opts.MaxTurns,
	})
	if err != nil {
		return nil, err
	}

	app := runtime.NewApp(runner, nil)
	results, err := app.Run(ctx, wfs, prompt, opts.Vars)
	if err != nil {
		return nil, err
	}

	out := make([]*RunResult, 0, len(wfs))
	for _, wf := range wfs {
		res, ok := results[wf.Name]
		if !ok {
			continue
		}
		out = append(out, &RunResult{
			Workflow:   wf.Name,
			Answer:     res.Answer,
			Path:       res.Path,
			Turns:      res.Turns,
			Dispatches: res.Dispatches,
		})
	}
	return out, nil
}

func toolRegistry() (*tool.Registry, error) {
	tools := []tool.Tool{tool.NewWeather()}
	tools = append(tools, pluginapi.ExtraTools()...)
	return tool.NewRegistry(tools...)
}
