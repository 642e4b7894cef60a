package agentflow

import (
	"github.com/LiboWorks/agentflow/internal/workflow"
)

// Action is the side effect a transition performs.
type Action string

const (
	// ActionGenerate calls the LLM provider with the message history.
	ActionGenerate Action = "generate"

	// ActionDispatch executes the tool calls of the latest response.
	ActionDispatch Action = "dispatch"

	// ActionNone moves between states without side effects.
	ActionNone Action = ""
)

// Well-known state names used by the default transition table.
const (
	StateReady          = "ready"
	StatePromptExecuted = "prompt_executed"
	StateEnd            = "end"
)

// Workflow represents one agent workflow.
type Workflow struct {
	// Name is the unique identifier for this workflow.
	Name string

	// Provider selects the LLM provider ("openai", "llama").
	// Empty uses the default provider.
	Provider string

	// Model overrides the provider's configured model.
	Model string

	// System is the system prompt. Supports {{var}} substitution.
	System string

	// Tools lists the tool names this workflow may call.
	Tools []string

	// MaxTurns bounds the number of LLM generations in one run.
	// 0 uses the configured default.
	MaxTurns int

	// WaitFor names another workflow whose final answer this workflow
	// waits for. The answer is available as {{<name>}} in prompts.
	WaitFor string

	// WaitTimeout is the wait limit in seconds. 0 waits indefinitely.
	WaitTimeout int

	// Transitions is the state table driving the loop. Empty uses the
	// default agentic tool-calling table.
	Transitions []Transition
}

// Transition is one row of the state table.
type Transition struct {
	// From and To are state names.
	From string
	To   string

	// When is an optional guard like "{{tool_call}} == 'true'".
	When string

	// Action is performed when the transition is taken.
	Action Action
}

// NewWorkflow creates a new workflow with the given name.
func NewWorkflow(name string) *Workflow {
	return &Workflow{Name: name}
}

// WithProvider selects the LLM provider.
func (w *Workflow) WithProvider(provider string) *Workflow {
	w.Provider = provider
	return w
}

// WithModel overrides the provider's model.
func (w *Workflow) WithModel(model string) *Workflow {
	w.Model = model
	return w
}

// WithSystem sets the system prompt.
func (w *Workflow) WithSystem(system string) *Workflow {
	w.System = system
	return w
}

// WithTools sets the tools the workflow may call.
func (w *Workflow) WithTools(tools ...string) *Workflow {
	w.Tools = tools
	return w
}

// WithMaxTurns bounds the number of LLM generations.
func (w *Workflow) WithMaxTurns(n int) *Workflow {
	w.MaxTurns = n
	return w
}

// WaitingFor makes the workflow wait for another workflow's answer.
func (w *Workflow) WaitingFor(name string, timeoutSeconds int) *Workflow {
	w.WaitFor = name
	w.WaitTimeout = timeoutSeconds
	return w
}

// AddTransition appends a row to the state table.
func (w *Workflow) AddTransition(from, to, when string, action Action) *Workflow {
	w.Transitions = append(w.Transitions, Transition{From: from, To: to, When: when, Action: action})
	return w
}

// DefaultTransitions returns the canonical agentic tool-calling table.
func DefaultTransitions() []Transition {
	internal := workflow.DefaultTransitions()
	out := make([]Transition, len(internal))
	for i, tr := range internal {
		out[i] = fromInternalTransition(tr)
	}
	return out
}

// Conversion helpers

func (w *Workflow) toInternal() workflow.Workflow {
	wf := workflow.Workflow{
		Name:        w.Name,
		Provider:    w.Provider,
		Model:       w.Model,
		System:      w.System,
		Tools:       w.Tools,
		MaxTurns:    w.MaxTurns,
		WaitFor:     w.WaitFor,
		WaitTimeout: w.WaitTimeout,
	}
	for _, tr := range w.Transitions {
		wf.Transitions = append(wf.Transitions, workflow.Transition{
			From:   tr.From,
			To:     tr.To,
			When:   tr.When,
			Action: workflow.Action(tr.Action),
		})
	}
	wf.Normalize()
	return wf
}

func fromInternalWorkflow(wf workflow.Workflow) *Workflow {
	out := &Workflow{
		Name:        wf.Name,
		Provider:    wf.Provider,
		Model:       wf.Model,
		System:      wf.System,
		Tools:       wf.Tools,
		MaxTurns:    wf.MaxTurns,
		WaitFor:     wf.WaitFor,
		WaitTimeout: wf.WaitTimeout,
	}
	for _, tr := range wf.Transitions {
		out.Transitions = append(out.Transitions, fromInternalTransition(tr))
	}
	return out
}

func fromInternalTransition(tr workflow.Transition) Transition {
	return Transition{
		From:   tr.From,
		To:     tr.To,
		When:   tr.When,
		Action: Action(tr.Action),
	}
}
