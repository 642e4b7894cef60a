// Package message defines the message model exchanged between the workflow
// runtime, LLM providers and tools. A message is a role plus an ordered list
// of parts; parts are tagged by a type string, with tool-call parts using the
// "tool-<Name>" prefix convention.
package message

import (
	"encoding/json"
	"strings"
)

// Roles used by the runtime. The role is a free-form string; these are the
// values agentflow itself produces.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolPrefix marks a part as a tool call. A part with type "tool-GetWeather"
// requests execution of the registered tool named "GetWeather".
const ToolPrefix = "tool-"

// PartTypeText is the type tag of plain text parts.
const PartTypeText = "text"

// Lifecycle states of a tool-call part.
const (
	StateInputAvailable  = "input-available"
	StateOutputAvailable = "output-available"
)

// Output is the executed result attached to a tool-call part.
type Output struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Part is one segment of a message. Type is either "text" or "tool-<Name>";
// the remaining fields are populated according to the type.
type Part struct {
	Type string `json:"type"`

	// Text carries the content of a "text" part.
	Text string `json:"text,omitempty"`

	// Tool-call fields.
	CallID string          `json:"call_id,omitempty"`
	Input  json.RawMessage `json:"input,omitempty"`
	State  string          `json:"state,omitempty"`
	Output *Output         `json:"output,omitempty"`
}

// Message is a role plus ordered parts. Messages are treated as immutable
// once produced; the runtime copies rather than mutates them.
type Message struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Text creates a plain text part.
func Text(s string) Part {
	return Part{Type: PartTypeText, Text: s}
}

// ToolCall creates an unexecuted tool-call part for the named tool.
func ToolCall(tool, callID string, input json.RawMessage) Part {
	return Part{
		Type:   ToolPrefix + tool,
		CallID: callID,
		Input:  input,
		State:  StateInputAvailable,
	}
}

// New creates a message with the given role and parts.
func New(role string, parts ...Part) *Message {
	return &Message{Role: role, Parts: parts}
}

// UserText creates a user message holding a single text part.
func UserText(s string) *Message {
	return New(RoleUser, Text(s))
}

// IsToolCall reports whether the part is a tool-call part.
func (p Part) IsToolCall() bool {
	return strings.HasPrefix(p.Type, ToolPrefix)
}

// ToolName returns the tool name encoded in a tool-call part's type, or an
// empty string for non-tool parts.
func (p Part) ToolName() string {
	if !p.IsToolCall() {
		return ""
	}
	return strings.TrimPrefix(p.Type, ToolPrefix)
}

// HasToolCall reports whether any part of the message is a tool call. A nil
// message has no parts and is never a tool call; this is the routing
// predicate for the agentic loop.
func (m *Message) HasToolCall() bool {
	if m == nil {
		return false
	}
	for _, p := range m.Parts {
		if p.IsToolCall() {
			return true
		}
	}
	return false
}

// ToolCalls returns the tool-call parts of the message in order.
func (m *Message) ToolCalls() []Part {
	if m == nil {
		return nil
	}
	var calls []Part
	for _, p := range m.Parts {
		if p.IsToolCall() {
			calls = append(calls, p)
		}
	}
	return calls
}

// TextContent concatenates the text parts of the message in order.
func (m *Message) TextContent() string {
	if m == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range m.Parts {
		if p.Type == PartTypeText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}
