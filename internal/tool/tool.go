// Package tool defines the tool abstraction for agent workflows: a registry
// of named tools with JSON-schema validated input, and the dispatcher that
// executes the tool calls found in an LLM response message.
package tool

import (
	"context"
	"encoding/json"

	jsonschema "github.com/google/jsonschema-go/jsonschema"
)

// Tool is a named capability the LLM may invoke. The description is sent to
// the model so it can decide when to call the tool; the schema constrains
// the call input and is validated before Execute runs.
type Tool interface {
	// Name returns the tool's registry name (used in "tool-<Name>" parts).
	Name() string

	// Description returns the natural-language description shown to the model.
	Description() string

	// Schema returns the JSON schema for the tool input, or nil for none.
	Schema() (*jsonschema.Schema, error)

	// Execute runs the tool with the given input as JSON (may be nil).
	Execute(ctx context.Context, input json.RawMessage) (*Result, error)
}

// Result is the contract a tool must return from Execute.
type Result struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Definition is the descriptor handed to LLM providers for a registered
// tool: its name, description and input schema.
type Definition struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
}
