// Package provider defines interfaces for LLM generation providers.
// This allows easy extension with new providers (e.g., Anthropic, Ollama)
// and facilitates testing through scripted implementations.
package provider

import (
	"context"

	"github.com/LiboWorks/agentflow/internal/message"
	"github.com/LiboWorks/agentflow/internal/tool"
)

// Request carries one generation call.
type Request struct {
	// History is the conversation so far, in order.
	History []message.Message

	// Tools describes what the model may call; empty means plain completion.
	Tools []tool.Definition

	// Model overrides the provider's configured model for this request.
	// For the openai provider this is a model name; for the llama provider
	// it is a GGUF path. Empty keeps the provider default.
	Model string
}

// Provider is the interface for language model providers. A provider turns
// a message history plus a set of tool descriptors into the model's next
// message; tool calls requested by the model come back as "tool-<Name>"
// parts of that message.
type Provider interface {
	// Generate produces the next message for the request's history.
	Generate(ctx context.Context, req Request) (*message.Message, error)

	// Name returns a human-readable name for the provider.
	Name() string

	// Close releases any resources held by the provider.
	Close() error
}

// Registry manages available providers and allows lookup by name.
type Registry struct {
	providers       map[string]Provider
	defaultProvider string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry. The first registered provider
// becomes the default.
func (r *Registry) Register(name string, p Provider) {
	r.providers[name] = p
	if r.defaultProvider == "" {
		r.defaultProvider = name
	}
}

// SetDefault sets which provider to use when none is specified.
func (r *Registry) SetDefault(name string) {
	r.defaultProvider = name
}

// Get returns a provider by name, or the default if name is empty.
func (r *Registry) Get(name string) (Provider, bool) {
	if name == "" {
		name = r.defaultProvider
	}
	p, ok := r.providers[name]
	return p, ok
}

// List returns names of all registered providers.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Close releases all provider resources.
func (r *Registry) Close() error {
	for _, p := range r.providers {
		if err := p.Close(); err != nil {
			return err
		}
	}
	return nil
}
