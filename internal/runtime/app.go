package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/LiboWorks/agentflow/internal/workflow"
)

// App runs all workflows of a file concurrently. A workflow with wait_for
// blocks until the named workflow finishes, and receives its final answer as
// a template variable under that workflow's name.
type App struct {
	runner *Runner
	log    *zap.Logger
}

func NewApp(runner *Runner, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{runner: runner, log: log}
}

// signal carries one workflow's outcome to its waiters. done is closed when
// the fields are set.
type signal struct {
	done   chan struct{}
	answer string
	err    error
}

// Run executes the workflows and returns the per-workflow results. Failed
// workflows are missing from the result map; their errors are joined into
// the returned error.
func (a *App) Run(ctx context.Context, wfs []workflow.Workflow, prompt string, vars map[string]string) (map[string]*RunResult, error) {
	signals := make(map[string]*signal, len(wfs))
	for _, wf := range wfs {
		signals[wf.Name] = &signal{done: make(chan struct{})}
	}

	var (
		mu      sync.Mutex
		results = make(map[string]*RunResult, len(wfs))
		errs    []error
	)

	var wg sync.WaitGroup
	for _, wf := range wfs {
		wg.Add(1)
		go func(wf workflow.Workflow) {
			defer wg.Done()

			sig := signals[wf.Name]
			res, err := a.runOne(ctx, wf, prompt, vars, signals)

			sig.err = err
			if res != nil {
				sig.answer = res.Answer
			}
			close(sig.done)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			results[wf.Name] = res
		}(wf)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

func (a *App) runOne(ctx context.Context, wf workflow.Workflow, prompt string, vars map[string]string, signals map[string]*signal) (*RunResult, error) {
	runVars := make(map[string]string, len(vars)+1)
	for k, v := range vars {
		runVars[k] = v
	}

	if wf.WaitFor != "" {
		dep := signals[wf.WaitFor]

		a.log.Debug("waiting for dependency",
			zap.String("workflow", wf.Name),
			zap.String("wait_for", wf.WaitFor))

		wait := ctx.Done()
		var timeout <-chan time.Time
		if wf.WaitTimeout > 0 {
			timer := time.NewTimer(time.Duration(wf.WaitTimeout) * time.Second)
			defer timer.Stop()
			timeout = timer.C
		}

		select {
		case <-dep.done:
		case <-timeout:
			return nil, fmt.Errorf("workflow %q: timed out waiting for %q", wf.Name, wf.WaitFor)
		case <-wait:
			return nil, ctx.Err()
		}
		if dep.err != nil {
			return nil, fmt.Errorf("workflow %q: dependency %q failed: %w", wf.Name, wf.WaitFor, dep.err)
		}
		runVars[wf.WaitFor] = dep.answer
	}

	return a.runner.Run(ctx, wf, prompt, runVars)
}
