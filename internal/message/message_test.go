package message_test

import (
	"encoding/json"
	"testing"

	"github.com/LiboWorks/agentflow/internal/message"
)

func TestHasToolCall(t *testing.T) {
	tests := []struct {
		name     string
		msg      *message.Message
		expected bool
	}{
		{
			name:     "nil message",
			msg:      nil,
			expected: false,
		},
		{
			name:     "empty parts",
			msg:      message.New(message.RoleAssistant),
			expected: false,
		},
		{
			name:     "text only",
			msg:      message.New(message.RoleAssistant, message.Text("hello")),
			expected: false,
		},
		{
			name: "single tool call",
			msg: message.New(message.RoleAssistant,
				message.ToolCall("GetWeather", "call_1", json.RawMessage(`{"location":"Berlin"}`))),
			expected: true,
		},
		{
			name: "tool call among text parts",
			msg: message.New(message.RoleAssistant,
				message.Text("checking the weather"),
				message.ToolCall("GetWeather", "call_1", nil),
				message.Text("one moment")),
			expected: true,
		},
		{
			name: "part type with similar but different prefix",
			msg: message.New(message.RoleAssistant,
				message.Part{Type: "toolbox", Text: "not a call"}),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.HasToolCall(); got != tt.expected {
				t.Errorf("HasToolCall() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestToolName(t *testing.T) {
	p := message.ToolCall("GetWeather", "call_1", nil)
	if p.ToolName() != "GetWeather" {
		t.Errorf("ToolName() = %q, want %q", p.ToolName(), "GetWeather")
	}
	if p.State != message.StateInputAvailable {
		t.Errorf("State = %q, want %q", p.State, message.StateInputAvailable)
	}

	txt := message.Text("hello")
	if txt.ToolName() != "" {
		t.Errorf("ToolName() on text part = %q, want empty", txt.ToolName())
	}
}

func TestToolCalls(t *testing.T) {
	msg := message.New(message.RoleAssistant,
		message.Text("calling two tools"),
		message.ToolCall("GetWeather", "call_1", json.RawMessage(`{"location":"Berlin"}`)),
		message.ToolCall("GetWeather", "call_2", json.RawMessage(`{"location":"Munich"}`)),
	)

	calls := msg.ToolCalls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 tool calls, got %d", len(calls))
	}
	if calls[0].CallID != "call_1" || calls[1].CallID != "call_2" {
		t.Errorf("tool calls out of order: %q, %q", calls[0].CallID, calls[1].CallID)
	}
}

func TestTextContent(t *testing.T) {
	msg := message.New(message.RoleAssistant,
		message.Text("hello "),
		message.ToolCall("GetWeather", "call_1", nil),
		message.Text("world"),
	)
	if got := msg.TextContent(); got != "hello world" {
		t.Errorf("TextContent() = %q, want %q", got, "hello world")
	}

	var nilMsg *message.Message
	if got := nilMsg.TextContent(); got != "" {
		t.Errorf("TextContent() on nil = %q, want empty", got)
	}
}

func TestPartJSONRoundTrip(t *testing.T) {
	p := message.ToolCall("GetWeather", "call_1", json.RawMessage(`{"location":"Berlin"}`))
	p.State = message.StateOutputAvailable
	p.Output = &message.Output{Type: "text", Value: "sunny"}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back message.Part
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if back.Type != "tool-GetWeather" {
		t.Errorf("Type = %q, want %q", back.Type, "tool-GetWeather")
	}
	if back.Output == nil || back.Output.Type != "text" {
		t.Errorf("Output not preserved: %+v", back.Output)
	}
}
