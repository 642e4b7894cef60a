package workflow

// Well-known states of the agentic loop. A workflow may rename them; these
// are the defaults used when no transition table is declared.
const (
	StateReady          = "ready"
	StatePromptExecuted = "prompt_executed"
	StateEnd            = "end"
)

// Action is the side effect performed when a transition is taken.
type Action string

const (
	// ActionGenerate calls the LLM provider with the message history.
	ActionGenerate Action = "generate"
	// ActionDispatch executes the tool calls of the latest LLM response.
	ActionDispatch Action = "dispatch"
	// ActionNone moves between states without side effects.
	ActionNone Action = ""
)

// Workflow is one declarative agent workflow: which provider and tools to
// use, and a transition table describing the loop.
type Workflow struct {
	Name     string   `yaml:"name"`
	Provider string   `yaml:"provider,omitempty"`
	Model    string   `yaml:"model,omitempty"`
	System   string   `yaml:"system,omitempty"`
	Tools    []string `yaml:"tools,omitempty"`

	// Initial and Terminal default to "ready" and "end".
	Initial  string `yaml:"initial,omitempty"`
	Terminal string `yaml:"terminal,omitempty"`

	// MaxTurns bounds the number of generate actions in one run.
	// 0 falls back to the configured default.
	MaxTurns int `yaml:"max_turns,omitempty"`

	// WaitFor optionally names another workflow in the same file whose
	// final answer this workflow waits for before starting. The answer is
	// exposed to prompt templates under the producer's name.
	WaitFor string `yaml:"wait_for,omitempty"`
	// WaitTimeout is the wait in seconds; 0 blocks indefinitely.
	WaitTimeout int `yaml:"wait_timeout,omitempty"`

	Transitions []Transition `yaml:"transitions,omitempty"`
}

// Transition is one row of the table: from a state, optionally guarded by a
// condition over workflow variables, perform an action and move to the next
// state. Rows from the same state are evaluated in declaration order.
type Transition struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	When   string `yaml:"when,omitempty"`
	Action Action `yaml:"action,omitempty"`
}

// DefaultTransitions returns the canonical agentic tool-calling table:
// generate from ready, then either dispatch and loop when the response
// requested tools, or finish.
func DefaultTransitions() []Transition {
	return []Transition{
		{From: StateReady, To: StatePromptExecuted, Action: ActionGenerate},
		{From: StatePromptExecuted, To: StateReady, When: "{{tool_call}} == 'true'", Action: ActionDispatch},
		{From: StatePromptExecuted, To: StateEnd, When: "{{tool_call}} == 'false'"},
	}
}

// Normalize fills in defaults: initial/terminal state names and, when no
// table was declared, the canonical transitions.
func (wf *Workflow) Normalize() {
	if wf.Initial == "" {
		wf.Initial = StateReady
	}
	if wf.Terminal == "" {
		wf.Terminal = StateEnd
	}
	if len(wf.Transitions) == 0 {
		wf.Transitions = DefaultTransitions()
	}
}

// From returns the transitions leaving the given state, in declaration order.
func (wf *Workflow) From(state string) []Transition {
	var out []Transition
	for _, tr := range wf.Transitions {
		if tr.From == state {
			out = append(out, tr)
		}
	}
	return out
}
