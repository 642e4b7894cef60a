package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Registry keeps the mapping between tool names and implementations.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a registry holding the given tools.
// Returns an error if any tool has an empty or duplicate name.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool)}
	if err := r.Register(tools...); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds one or more tools to the registry.
func (r *Registry) Register(tools ...Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range tools {
		if t == nil {
			return fmt.Errorf("tool is nil")
		}
		name := t.Name()
		if name == "" {
			return fmt.Errorf("tool name is empty")
		}
		if _, exists := r.tools[name]; exists {
			return fmt.Errorf("tool %s already registered", name)
		}
		r.tools[name] = t
	}
	return nil
}

// Lookup returns a tool by name, or nil if not found.
func (r *Registry) Lookup(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Names returns the sorted names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns provider descriptors for the named tools. With no
// names given, descriptors for every registered tool are returned, sorted
// by name. Unknown names are an error so a workflow referencing a missing
// tool fails before the first LLM call.
func (r *Registry) Definitions(names ...string) ([]Definition, error) {
	if len(names) == 0 {
		names = r.Names()
	}

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		t := r.Lookup(name)
		if t == nil {
			return nil, fmt.Errorf("tool %s not found", name)
		}
		schema, err := t.Schema()
		if err != nil {
			return nil, fmt.Errorf("tool %s schema: %w", name, err)
		}
		defs = append(defs, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			Schema:      schema,
		})
	}
	return defs, nil
}

// Execute runs a registered tool after validating the input against the
// tool's schema. Validation failures surface before the tool runs.
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (*Result, error) {
	t := r.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("tool %s not found", name)
	}

	if err := r.validate(t, input); err != nil {
		return nil, fmt.Errorf("tool %s validation failed: %w", name, err)
	}

	return t.Execute(ctx, input)
}

// validate checks the raw JSON input against the tool's schema, if any.
func (r *Registry) validate(t Tool, input json.RawMessage) error {
	schema, err := t.Schema()
	if err != nil {
		return fmt.Errorf("schema generation failed: %w", err)
	}
	if schema == nil {
		return nil
	}

	var mapInput map[string]any
	if len(input) > 0 {
		if err := json.Unmarshal(input, &mapInput); err != nil {
			return fmt.Errorf("input is not a JSON object: %w", err)
		}
	}
	if mapInput == nil {
		mapInput = map[string]any{}
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("schema resolution failed: %w", err)
	}
	return resolved.Validate(mapInput)
}
