package runtime

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/LiboWorks/agentflow/internal/config"
	"github.com/LiboWorks/agentflow/internal/document"
	"github.com/LiboWorks/agentflow/internal/message"
	"github.com/LiboWorks/agentflow/internal/provider"
	"github.com/LiboWorks/agentflow/internal/tool"
	"github.com/LiboWorks/agentflow/internal/workflow"
)

// ErrMaxTurns is returned when a run would exceed its generation turn limit.
var ErrMaxTurns = errors.New("maximum turns exceeded")

// Runner executes workflows: it walks the transition table, calling the
// provider on generate actions and the tool registry on dispatch actions,
// until the terminal state is reached.
type Runner struct {
	providers *provider.Registry
	tools     *tool.Registry
	docs      document.Store
	log       *zap.Logger
	maxTurns  int
}

// RunnerConfig collects the collaborators a Runner needs.
type RunnerConfig struct {
	// Providers resolves workflow provider names; required.
	Providers *provider.Registry
	// Tools resolves and dispatches tool calls; required.
	Tools *tool.Registry
	// Docs persists conversation messages. Optional; nil disables recording.
	Docs document.Store
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// MaxTurns is the fallback turn limit for workflows that do not set
	// their own. 0 uses the configured default.
	MaxTurns int
}

// NewRunner validates the configuration and builds a Runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Providers == nil {
		return nil, fmt.Errorf("runner requires a provider registry")
	}
	if cfg.Tools == nil {
		return nil, fmt.Errorf("runner requires a tool registry")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = config.Get().MaxTurns
	}
	return &Runner{
		providers: cfg.Providers,
		tools:     cfg.Tools,
		docs:      cfg.Docs,
		log:       log,
		maxTurns:  maxTurns,
	}, nil
}

// RunResult is the outcome of one workflow run.
type RunResult struct {
	// Answer is the text of the final assistant message.
	Answer string
	// History is the full conversation, in order.
	History []message.Message
	// Path lists the visited states, starting at the initial state.
	Path []string
	// Turns counts generate actions, Dispatches counts dispatch actions.
	Turns      int
	Dispatches int
}

// Run executes one workflow for a user prompt. Vars seed the runtime
// context and are substituted into {{placeholders}} in the prompt and the
// system message.
func (r *Runner) Run(ctx context.Context, wf workflow.Workflow, prompt string, vars map[string]string) (*RunResult, error) {
	prov, ok := r.providers.Get(wf.Provider)
	if !ok {
		return nil, fmt.Errorf("workflow %q: unknown provider %q", wf.Name, wf.Provider)
	}
	// A workflow that lists no tools exposes none to the model.
	var defs []tool.Definition
	if len(wf.Tools) > 0 {
		var err error
		defs, err = r.tools.Definitions(wf.Tools...)
		if err != nil {
			return nil, fmt.Errorf("workflow %q: %w", wf.Name, err)
		}
	}

	rctx := NewRuntimeContext()
	for k, v := range vars {
		rctx.Set(k, v)
	}

	maxTurns := wf.MaxTurns
	if maxTurns <= 0 {
		maxTurns = r.maxTurns
	}

	res := &RunResult{Path: []string{wf.Initial}}
	seq := 0
	record := func(msg *message.Message) {
		res.History = append(res.History, *msg)
		if r.docs == nil {
			return
		}
		if err := r.docs.Create(document.New(wf.Name, seq, msg)); err != nil {
			r.log.Warn("failed to persist document",
				zap.String("workflow", wf.Name),
				zap.Error(err))
		}
		seq++
	}

	if wf.System != "" {
		record(message.New(message.RoleSystem, message.Text(RenderTemplate(wf.System, rctx.Vars))))
	}
	record(message.UserText(RenderTemplate(prompt, rctx.Vars)))

	r.log.Info("starting workflow",
		zap.String("workflow", wf.Name),
		zap.String("provider", prov.Name()),
		zap.Strings("tools", wf.Tools),
		zap.Int("max_turns", maxTurns))

	var lastResponse *message.Message
	state := wf.Initial
	idle := 0
	for state != wf.Terminal {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tr, ok := r.nextTransition(wf, state, rctx)
		if !ok {
			return nil, fmt.Errorf("workflow %q: no transition applies from state %q", wf.Name, state)
		}

		switch tr.Action {
		case workflow.ActionGenerate:
			if res.Turns >= maxTurns {
				return nil, fmt.Errorf("workflow %q: %w (limit %d)", wf.Name, ErrMaxTurns, maxTurns)
			}
			res.Turns++

			resp, err := prov.Generate(ctx, provider.Request{
				History: res.History,
				Tools:   defs,
				Model:   wf.Model,
			})
			if err != nil {
				return nil, fmt.Errorf("workflow %q: generation failed: %w", wf.Name, err)
			}
			lastResponse = resp
			record(resp)
			rctx.Set("tool_call", strconv.FormatBool(resp.HasToolCall()))

			r.log.Debug("generated response",
				zap.String("workflow", wf.Name),
				zap.Int("turn", res.Turns),
				zap.Bool("tool_call", resp.HasToolCall()))

		case workflow.ActionDispatch:
			if lastResponse == nil {
				return nil, fmt.Errorf("workflow %q: dispatch before any response in state %q", wf.Name, state)
			}
			result, err := r.tools.Dispatch(ctx, lastResponse)
			if err != nil {
				return nil, fmt.Errorf("workflow %q: %w", wf.Name, err)
			}
			res.Dispatches++
			record(result)

			r.log.Debug("dispatched tool calls",
				zap.String("workflow", wf.Name),
				zap.Int("calls", len(result.Parts)))
		}

		// A cycle of actionless transitions can never finish.
		if tr.Action == workflow.ActionNone {
			idle++
			if idle > len(wf.Transitions) {
				return nil, fmt.Errorf("workflow %q: transition cycle without progress at state %q", wf.Name, state)
			}
		} else {
			idle = 0
		}

		state = tr.To
		res.Path = append(res.Path, state)
	}

	if lastResponse != nil {
		res.Answer = lastResponse.TextContent()
	}

	r.log.Info("workflow finished",
		zap.String("workflow", wf.Name),
		zap.Int("turns", res.Turns),
		zap.Int("dispatches", res.Dispatches),
		zap.Strings("path", res.Path))

	return res, nil
}

// nextTransition picks the first transition out of the current state whose
// condition holds. Unconditional transitions always match.
func (r *Runner) nextTransition(wf workflow.Workflow, state string, rctx *RuntimeContext) (workflow.Transition, bool) {
	for _, tr := range wf.From(state) {
		if tr.When == "" || EvalCondition(rctx, tr.When) {
			return tr, true
		}
	}
	return workflow.Transition{}, false
}
