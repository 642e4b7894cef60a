package agentflow

import "context"

// Version information for agentflow.
const (
	// Version is the current version of agentflow.
	Version = "0.1.0"

	// MinGoVersion is the minimum required Go version.
	MinGoVersion = "1.25"
)

// DefaultOptions returns a new RunOptions with default values.
func DefaultOptions() *RunOptions {
	return &RunOptions{
		Workers: 1,
	}
}

// Option is a functional option for configuring a run.
type Option func(*RunOptions)

// WithVars seeds the template variables for the run.
func WithVars(vars map[string]string) Option {
	return func(o *RunOptions) {
		o.Vars = vars
	}
}

// WithMaxTurns overrides the default turn limit.
func WithMaxTurns(n int) Option {
	return func(o *RunOptions) {
		o.MaxTurns = n
	}
}

// WithPersistence enables conversation persistence in the given directory.
// An empty dir uses the configured default.
func WithPersistence(dir string) Option {
	return func(o *RunOptions) {
		o.Persist = true
		o.DocsDir = dir
	}
}

// WithWorkers sizes the local inference worker pool.
func WithWorkers(n int) Option {
	return func(o *RunOptions) {
		o.Workers = n
	}
}

// ApplyOptions applies functional options to RunOptions.
func ApplyOptions(opts ...Option) *RunOptions {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunFileWith runs a workflow file with functional options.
//
// Example:
//
//	results, err := agentflow.RunFileWith(ctx, "workflow.yaml", "Weather in Berlin?",
//	    agentflow.WithMaxTurns(4),
//	    agentflow.WithPersistence(""),
//	)
func RunFileWith(ctx context.Context, inputPath, prompt string, opts ...Option) ([]*RunResult, error) {
	return RunFile(ctx, inputPath, prompt, ApplyOptions(opts...))
}

// RunWith runs workflows with functional options.
func RunWith(ctx context.Context, workflows []*Workflow, prompt string, opts ...Option) ([]*RunResult, error) {
	return Run(ctx, workflows, prompt, ApplyOptions(opts...))
}
