package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/LiboWorks/agentflow/internal/message"
	"github.com/LiboWorks/agentflow/internal/tool"
)

// Completer produces a raw text completion for a prompt. Implemented by the
// in-process Engine and by the subprocess worker client/pool, so the llama
// provider does not care where inference actually runs.
type Completer interface {
	Generate(prompt, modelPath string, maxTokens int) (string, error)
}

// LlamaProvider implements Provider on top of local llama.cpp inference.
// Local models have no native function calling, so tool use follows a JSON
// convention: the prompt instructs the model to answer a tool request with
// a single {"tool": ..., "input": ...} object, which is extracted from the
// completion and turned into a tool-call part.
type LlamaProvider struct {
	completer Completer
	modelPath string
	maxTokens int
	closer    func() error
}

// LlamaProviderConfig holds configuration for the local llama provider.
type LlamaProviderConfig struct {
	// Completer runs raw completions; required.
	Completer Completer

	// ModelPath is the GGUF file used for every generation.
	ModelPath string

	// MaxTokens limits completion length (0 means engine default).
	MaxTokens int

	// Closer, if set, is invoked by Close (e.g. to shut down a worker pool).
	Closer func() error
}

// NewLlamaProvider creates a local llama provider.
func NewLlamaProvider(cfg LlamaProviderConfig) (*LlamaProvider, error) {
	if cfg.Completer == nil {
		return nil, fmt.Errorf("llama provider requires a completer")
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("llama provider requires a model path (set LLAMA_MODEL_PATH)")
	}
	return &LlamaProvider{
		completer: cfg.Completer,
		modelPath: cfg.ModelPath,
		maxTokens: cfg.MaxTokens,
		closer:    cfg.Closer,
	}, nil
}

// Generate implements Provider. A model set on the request is treated as an
// alternate GGUF path.
func (p *LlamaProvider) Generate(ctx context.Context, req Request) (*message.Message, error) {
	prompt := buildPrompt(req.History, req.Tools)

	modelPath := p.modelPath
	if req.Model != "" {
		modelPath = req.Model
	}

	out, err := p.completer.Generate(prompt, modelPath, p.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("llama completion failed: %w", err)
	}

	msg := message.New(message.RoleAssistant)
	calls, text := extractToolCalls(out)
	if text != "" {
		msg.Parts = append(msg.Parts, message.Text(text))
	}
	for _, c := range calls {
		msg.Parts = append(msg.Parts, message.ToolCall(c.Tool, "call_"+uuid.NewString(), c.Input))
	}
	return msg, nil
}

// Name implements Provider.
func (p *LlamaProvider) Name() string {
	return "llama"
}

// Close implements Provider.
func (p *LlamaProvider) Close() error {
	if p.closer != nil {
		return p.closer()
	}
	return nil
}

// rawToolCall is the JSON shape a local model uses to request a tool.
type rawToolCall struct {
	Tool  string          `json:"tool"`
	Input json.RawMessage `json:"input"`
}

// buildPrompt flattens the chat history into a plain prompt, prefixing tool
// instructions when tools are available.
func buildPrompt(history []message.Message, tools []tool.Definition) string {
	var sb strings.Builder

	if len(tools) > 0 {
		sb.WriteString("You can call the following tools:\n")
		for _, def := range tools {
			sb.WriteString("- ")
			sb.WriteString(def.Name)
			sb.WriteString(": ")
			sb.WriteString(def.Description)
			sb.WriteString("\n")
		}
		sb.WriteString("To call a tool, reply with only a JSON object of the form ")
		sb.WriteString(`{"tool": "<name>", "input": {...}}.` + "\n")
		sb.WriteString("Otherwise, reply with the final answer as plain text.\n\n")
	}

	for _, msg := range history {
		switch msg.Role {
		case message.RoleSystem:
			sb.WriteString("System: ")
			sb.WriteString(flatten(msg.TextContent()))
		case message.RoleTool:
			for _, part := range msg.Parts {
				if !part.IsToolCall() || part.Output == nil {
					continue
				}
				sb.WriteString("Tool ")
				sb.WriteString(part.ToolName())
				sb.WriteString(" returned: ")
				sb.WriteString(flatten(outputContent(part.Output)))
				sb.WriteString("\n")
			}
			continue
		case message.RoleAssistant:
			sb.WriteString("Assistant: ")
			sb.WriteString(flatten(msg.TextContent()))
			for _, part := range msg.ToolCalls() {
				sb.WriteString(fmt.Sprintf(" [called %s]", part.ToolName()))
			}
		default:
			sb.WriteString("User: ")
			sb.WriteString(flatten(msg.TextContent()))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Assistant:")
	return sb.String()
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// flatten collapses free-form text (like LLM output) to a single trimmed
// line so it embeds cleanly into a prompt.
func flatten(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// extractToolCalls scans a completion for tool-call JSON objects and
// returns them along with the remaining text. Models wrap JSON in prose or
// code fences often enough that the whole completion cannot just be
// unmarshalled.
func extractToolCalls(out string) ([]rawToolCall, string) {
	var calls []rawToolCall
	var sb strings.Builder

	rest := out
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			sb.WriteString(rest)
			break
		}

		dec := json.NewDecoder(strings.NewReader(rest[start:]))
		var candidate rawToolCall
		if err := dec.Decode(&candidate); err != nil || candidate.Tool == "" {
			// Not a tool call; keep the brace as plain text and move on.
			sb.WriteString(rest[:start+1])
			rest = rest[start+1:]
			continue
		}

		// Drop the whitespace that padded the call so the surrounding
		// text joins up cleanly.
		if seg := strings.TrimRight(rest[:start], " \t\r\n"); seg != "" {
			sb.WriteString(seg)
		}
		calls = append(calls, candidate)
		rest = rest[start+int(dec.InputOffset()):]
	}

	return calls, strings.TrimSpace(sb.String())
}
