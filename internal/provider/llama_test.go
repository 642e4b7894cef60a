package provider

import (
	"context"
	"strings"
	"testing"

	"github.com/LiboWorks/agentflow/internal/message"
	"github.com/LiboWorks/agentflow/internal/tool"
)

// recordingCompleter captures the model path of each completion call.
type recordingCompleter struct {
	paths []string
}

func (c *recordingCompleter) Generate(prompt, modelPath string, maxTokens int) (string, error) {
	c.paths = append(c.paths, modelPath)
	return "ok", nil
}

func TestLlamaGenerateModelOverride(t *testing.T) {
	completer := &recordingCompleter{}
	p, err := NewLlamaProvider(LlamaProviderConfig{
		Completer: completer,
		ModelPath: "default.gguf",
	})
	if err != nil {
		t.Fatalf("NewLlamaProvider() error: %v", err)
	}

	history := []message.Message{*message.UserText("hi")}

	if _, err := p.Generate(context.Background(), Request{History: history}); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if _, err := p.Generate(context.Background(), Request{History: history, Model: "other.gguf"}); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if len(completer.paths) != 2 {
		t.Fatalf("expected 2 completions, got %d", len(completer.paths))
	}
	if completer.paths[0] != "default.gguf" {
		t.Errorf("expected default path, got %q", completer.paths[0])
	}
	if completer.paths[1] != "other.gguf" {
		t.Errorf("expected request model as path, got %q", completer.paths[1])
	}
}

func TestExtractToolCalls(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCalls int
		wantTool  string
		wantText  string
	}{
		{
			name:      "plain text",
			input:     "The weather is sunny.",
			wantCalls: 0,
			wantText:  "The weather is sunny.",
		},
		{
			name:      "bare tool call",
			input:     `{"tool": "GetWeather", "input": {"location": "Berlin"}}`,
			wantCalls: 1,
			wantTool:  "GetWeather",
			wantText:  "",
		},
		{
			name:      "tool call wrapped in prose",
			input:     `Sure, let me check. {"tool": "GetWeather", "input": {"location": "Berlin"}} One moment.`,
			wantCalls: 1,
			wantTool:  "GetWeather",
			wantText:  "Sure, let me check. One moment.",
		},
		{
			name:      "json without tool field is text",
			input:     `Here is data: {"temp": 14}`,
			wantCalls: 0,
			wantText:  `Here is data: {"temp": 14}`,
		},
		{
			name:      "two tool calls",
			input:     `{"tool": "GetWeather", "input": {"location": "Berlin"}} {"tool": "GetWeather", "input": {"location": "Munich"}}`,
			wantCalls: 2,
			wantTool:  "GetWeather",
			wantText:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, text := extractToolCalls(tt.input)
			if len(calls) != tt.wantCalls {
				t.Fatalf("extractToolCalls() returned %d calls, want %d", len(calls), tt.wantCalls)
			}
			if tt.wantCalls > 0 && calls[0].Tool != tt.wantTool {
				t.Errorf("tool = %q, want %q", calls[0].Tool, tt.wantTool)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	history := []message.Message{
		*message.New(message.RoleSystem, message.Text("be brief")),
		*message.UserText("weather in Berlin?"),
	}
	tools := []tool.Definition{
		{Name: "GetWeather", Description: "weather report for a location"},
	}

	prompt := buildPrompt(history, tools)

	for _, want := range []string{
		"GetWeather: weather report for a location",
		`{"tool": "<name>", "input": {...}}`,
		"System: be brief",
		"User: weather in Berlin?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}

	if !strings.HasSuffix(prompt, "Assistant:") {
		t.Errorf("prompt should end with assistant cue:\n%s", prompt)
	}
}

func TestBuildPromptWithoutTools(t *testing.T) {
	prompt := buildPrompt([]message.Message{*message.UserText("hi")}, nil)
	if strings.Contains(prompt, "tools") {
		t.Errorf("tool instructions should be absent:\n%s", prompt)
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple text",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "with newlines",
			input:    "hello\nworld",
			expected: "hello world",
		},
		{
			name:     "multiple whitespace",
			input:    "hello \t  world",
			expected: "hello world",
		},
		{
			name:     "leading/trailing whitespace",
			input:    "  hello world  ",
			expected: "hello world",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flatten(tt.input); got != tt.expected {
				t.Errorf("flatten(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
