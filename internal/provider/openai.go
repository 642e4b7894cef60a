package provider

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/LiboWorks/agentflow/internal/config"
	"github.com/LiboWorks/agentflow/internal/message"
)

// OpenAIProvider implements Provider using the OpenAI chat completion API
// with native function calling.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // Optional: for Azure or compatible APIs
	Model   string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	globalCfg := config.Get()

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = globalCfg.OpenAIAPIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not provided (set OPENAI_API_KEY or pass in config)")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = globalCfg.OpenAIBaseURL
	}
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	model := cfg.Model
	if model == "" {
		model = globalCfg.OpenAIModel
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Generate implements Provider.
func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*message.Message, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return fromChatMessage(resp.Choices[0].Message), nil
}

// buildRequest maps a generation request to the OpenAI wire format. A model
// set on the request takes precedence over the configured one.
func (p *OpenAIProvider) buildRequest(req Request) openai.ChatCompletionRequest {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	out := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toChatMessages(req.History),
	}
	for _, def := range req.Tools {
		out.Tools = append(out.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Schema,
			},
		})
	}
	return out
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Close implements Provider.
func (p *OpenAIProvider) Close() error {
	return nil
}

// toChatMessages maps the message history to the OpenAI wire format. A tool
// result message fans out to one chat message per output part, keyed by the
// tool call id; everything else maps one-to-one.
func toChatMessages(history []message.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history))

	for _, msg := range history {
		if msg.Role == message.RoleTool {
			for _, part := range msg.Parts {
				if !part.IsToolCall() {
					continue
				}
				out = append(out, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					ToolCallID: part.CallID,
					Content:    outputContent(part.Output),
				})
			}
			continue
		}

		cm := openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.TextContent(),
		}
		for _, part := range msg.Parts {
			if !part.IsToolCall() {
				continue
			}
			cm.ToolCalls = append(cm.ToolCalls, openai.ToolCall{
				ID:   part.CallID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      part.ToolName(),
					Arguments: string(part.Input),
				},
			})
		}
		out = append(out, cm)
	}

	return out
}

// fromChatMessage maps an OpenAI response message back to the internal
// model: content becomes a text part, each tool call a tool-call part in
// input-available state.
func fromChatMessage(cm openai.ChatCompletionMessage) *message.Message {
	msg := message.New(message.RoleAssistant)

	if cm.Content != "" {
		msg.Parts = append(msg.Parts, message.Text(cm.Content))
	}
	for _, call := range cm.ToolCalls {
		msg.Parts = append(msg.Parts, message.ToolCall(
			call.Function.Name,
			call.ID,
			json.RawMessage(call.Function.Arguments),
		))
	}

	return msg
}

// outputContent renders a tool output for the wire. Plain strings pass
// through; anything else is marshalled to JSON.
func outputContent(out *message.Output) string {
	if out == nil {
		return ""
	}
	if s, ok := out.Value.(string); ok {
		return s
	}
	data, err := json.Marshal(out.Value)
	if err != nil {
		return fmt.Sprintf("%v", out.Value)
	}
	return string(data)
}
