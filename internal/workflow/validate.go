package workflow

import "fmt"

// Validate checks one normalized workflow for structural problems that would
// make a run undefined: missing names, transitions touching unknown pieces,
// unreachable terminal states.
func (wf *Workflow) Validate() error {
	if wf.Name == "" {
		return fmt.Errorf("workflow name is required")
	}
	if wf.MaxTurns < 0 {
		return fmt.Errorf("max_turns must not be negative")
	}

	terminalReachable := false
	fromInitial := false
	for i, tr := range wf.Transitions {
		if tr.From == "" {
			return fmt.Errorf("transition %d: from state is required", i)
		}
		if tr.To == "" {
			return fmt.Errorf("transition %d: to state is required", i)
		}
		switch tr.Action {
		case ActionGenerate, ActionDispatch, ActionNone:
		default:
			return fmt.Errorf("transition %d: unknown action %q", i, tr.Action)
		}
		if tr.From == wf.Terminal {
			return fmt.Errorf("transition %d: terminal state %q must not have outgoing transitions", i, wf.Terminal)
		}
		if tr.From == wf.Initial {
			fromInitial = true
		}
		if tr.To == wf.Terminal {
			terminalReachable = true
		}
	}
	if !fromInitial {
		return fmt.Errorf("no transition leaves the initial state %q", wf.Initial)
	}
	if !terminalReachable {
		return fmt.Errorf("terminal state %q is unreachable", wf.Terminal)
	}
	return nil
}

// validateSet checks cross-workflow constraints within one file: unique
// names and wait_for references that resolve.
func validateSet(wfs []Workflow) error {
	names := make(map[string]bool, len(wfs))
	for _, wf := range wfs {
		if names[wf.Name] {
			return fmt.Errorf("duplicate workflow name %q", wf.Name)
		}
		names[wf.Name] = true
	}
	for _, wf := range wfs {
		if wf.WaitFor == "" {
			continue
		}
		if wf.WaitFor == wf.Name {
			return fmt.Errorf("workflow %q cannot wait for itself", wf.Name)
		}
		if !names[wf.WaitFor] {
			return fmt.Errorf("workflow %q waits for unknown workflow %q", wf.Name, wf.WaitFor)
		}
	}

	// Each workflow has at most one wait_for, so a cycle is found by
	// walking the chain until it repeats or ends.
	waits := make(map[string]string, len(wfs))
	for _, wf := range wfs {
		waits[wf.Name] = wf.WaitFor
	}
	for _, wf := range wfs {
		seen := map[string]bool{wf.Name: true}
		for cur := waits[wf.Name]; cur != ""; cur = waits[cur] {
			if seen[cur] {
				return fmt.Errorf("workflow %q is part of a wait_for cycle", wf.Name)
			}
			seen[cur] = true
		}
	}
	return nil
}
