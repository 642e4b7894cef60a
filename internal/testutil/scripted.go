// Package testutil holds test doubles shared across package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/LiboWorks/agentflow/internal/message"
	"github.com/LiboWorks/agentflow/internal/provider"
)

// ScriptedProvider replays a fixed sequence of responses and records the
// requests it was called with, so tests can assert on the exact conversation
// a run produced.
type ScriptedProvider struct {
	mu        sync.Mutex
	name      string
	responses []*message.Message
	next      int
	histories [][]message.Message
	models    []string
}

func NewScriptedProvider(name string, responses ...*message.Message) *ScriptedProvider {
	return &ScriptedProvider{name: name, responses: responses}
}

func (p *ScriptedProvider) Generate(ctx context.Context, req provider.Request) (*message.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := make([]message.Message, len(req.History))
	copy(snapshot, req.History)
	p.histories = append(p.histories, snapshot)
	p.models = append(p.models, req.Model)

	if p.next >= len(p.responses) {
		return nil, fmt.Errorf("scripted provider %q exhausted after %d responses", p.name, len(p.responses))
	}
	resp := p.responses[p.next]
	p.next++
	return resp, nil
}

func (p *ScriptedProvider) Name() string {
	return p.name
}

func (p *ScriptedProvider) Close() error {
	return nil
}

// Calls returns how many times Generate was invoked.
func (p *ScriptedProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.histories)
}

// HistoryAt returns the history snapshot of the i-th Generate call.
func (p *ScriptedProvider) HistoryAt(i int) []message.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.histories[i]
}

// ModelAt returns the model requested by the i-th Generate call.
func (p *ScriptedProvider) ModelAt(i int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.models[i]
}
