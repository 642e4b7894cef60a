package provider

import (
	"encoding/json"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/LiboWorks/agentflow/internal/message"
)

func TestToChatMessages(t *testing.T) {
	history := []message.Message{
		*message.New(message.RoleSystem, message.Text("be helpful")),
		*message.UserText("weather in Berlin?"),
		*message.New(message.RoleAssistant,
			message.ToolCall("GetWeather", "call_1", json.RawMessage(`{"location":"Berlin"}`))),
		*message.New(message.RoleTool, message.Part{
			Type:   "tool-GetWeather",
			CallID: "call_1",
			State:  message.StateOutputAvailable,
			Output: &message.Output{Type: "text", Value: "sunny"},
		}),
	}

	out := toChatMessages(history)
	if len(out) != 4 {
		t.Fatalf("expected 4 chat messages, got %d", len(out))
	}

	if out[0].Role != openai.ChatMessageRoleSystem || out[0].Content != "be helpful" {
		t.Errorf("unexpected system message: %+v", out[0])
	}

	if out[1].Role != openai.ChatMessageRoleUser {
		t.Errorf("expected user role, got %q", out[1].Role)
	}

	assistant := out[2]
	if len(assistant.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(assistant.ToolCalls))
	}
	if assistant.ToolCalls[0].Function.Name != "GetWeather" {
		t.Errorf("unexpected function name %q", assistant.ToolCalls[0].Function.Name)
	}
	if assistant.ToolCalls[0].ID != "call_1" {
		t.Errorf("unexpected call id %q", assistant.ToolCalls[0].ID)
	}

	toolMsg := out[3]
	if toolMsg.Role != openai.ChatMessageRoleTool {
		t.Errorf("expected tool role, got %q", toolMsg.Role)
	}
	if toolMsg.ToolCallID != "call_1" {
		t.Errorf("expected tool call id 'call_1', got %q", toolMsg.ToolCallID)
	}
	if toolMsg.Content != "sunny" {
		t.Errorf("expected content 'sunny', got %q", toolMsg.Content)
	}
}

func TestToChatMessagesFansOutToolResults(t *testing.T) {
	history := []message.Message{
		*message.New(message.RoleTool,
			message.Part{Type: "tool-GetWeather", CallID: "call_1", State: message.StateOutputAvailable,
				Output: &message.Output{Type: "text", Value: "sunny"}},
			message.Part{Type: "tool-GetWeather", CallID: "call_2", State: message.StateOutputAvailable,
				Output: &message.Output{Type: "text", Value: "rainy"}},
		),
	}

	out := toChatMessages(history)
	if len(out) != 2 {
		t.Fatalf("expected one chat message per output part, got %d", len(out))
	}
	if out[0].ToolCallID != "call_1" || out[1].ToolCallID != "call_2" {
		t.Errorf("tool call ids out of order: %q, %q", out[0].ToolCallID, out[1].ToolCallID)
	}
}

func TestFromChatMessage(t *testing.T) {
	cm := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: "let me check",
		ToolCalls: []openai.ToolCall{
			{
				ID:   "call_9",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "GetWeather",
					Arguments: `{"location":"Munich"}`,
				},
			},
		},
	}

	msg := fromChatMessage(cm)
	if msg.Role != message.RoleAssistant {
		t.Errorf("expected assistant role, got %q", msg.Role)
	}
	if len(msg.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(msg.Parts))
	}
	if msg.Parts[0].Type != message.PartTypeText || msg.Parts[0].Text != "let me check" {
		t.Errorf("unexpected text part: %+v", msg.Parts[0])
	}

	call := msg.Parts[1]
	if call.Type != "tool-GetWeather" {
		t.Errorf("expected tool part type 'tool-GetWeather', got %q", call.Type)
	}
	if call.CallID != "call_9" {
		t.Errorf("expected call id 'call_9', got %q", call.CallID)
	}
	if call.State != message.StateInputAvailable {
		t.Errorf("expected input-available state, got %q", call.State)
	}
	if !msg.HasToolCall() {
		t.Error("expected HasToolCall to be true")
	}
}

func TestBuildRequestModel(t *testing.T) {
	p := &OpenAIProvider{model: "gpt-4"}
	history := []message.Message{*message.UserText("hi")}

	// Without an override the configured model is used.
	req := p.buildRequest(Request{History: history})
	if req.Model != "gpt-4" {
		t.Errorf("expected configured model 'gpt-4', got %q", req.Model)
	}

	// A request-level model wins.
	req = p.buildRequest(Request{History: history, Model: "gpt-4o-mini"})
	if req.Model != "gpt-4o-mini" {
		t.Errorf("expected request model 'gpt-4o-mini', got %q", req.Model)
	}
	if len(req.Messages) != 1 {
		t.Fatalf("expected 1 chat message, got %d", len(req.Messages))
	}
}

func TestOutputContent(t *testing.T) {
	tests := []struct {
		name     string
		output   *message.Output
		expected string
	}{
		{
			name:     "nil output",
			output:   nil,
			expected: "",
		},
		{
			name:     "string passes through",
			output:   &message.Output{Type: "text", Value: "sunny"},
			expected: "sunny",
		},
		{
			name:     "structured value marshals",
			output:   &message.Output{Type: "json", Value: map[string]any{"temp": 14}},
			expected: `{"temp":14}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputContent(tt.output); got != tt.expected {
				t.Errorf("outputContent() = %q, want %q", got, tt.expected)
			}
		})
	}
}
