package runtime_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiboWorks/agentflow/internal/document"
	"github.com/LiboWorks/agentflow/internal/message"
	"github.com/LiboWorks/agentflow/internal/provider"
	"github.com/LiboWorks/agentflow/internal/runtime"
	"github.com/LiboWorks/agentflow/internal/testutil"
	"github.com/LiboWorks/agentflow/internal/tool"
	"github.com/LiboWorks/agentflow/internal/workflow"
)

func newRunner(t *testing.T, p provider.Provider, docs document.Store) *runtime.Runner {
	t.Helper()

	providers := provider.NewRegistry()
	providers.Register(p.Name(), p)

	tools, err := tool.NewRegistry(tool.NewWeather())
	require.NoError(t, err)

	runner, err := runtime.NewRunner(runtime.RunnerConfig{
		Providers: providers,
		Tools:     tools,
		Docs:      docs,
		MaxTurns:  8,
	})
	require.NoError(t, err)
	return runner
}

func weatherWorkflow() workflow.Workflow {
	wf := workflow.Workflow{
		Name:  "weather",
		Tools: []string{tool.WeatherToolName},
	}
	wf.Normalize()
	return wf
}

func TestRunToolCallLoop(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted",
		message.New(message.RoleAssistant,
			message.ToolCall(tool.WeatherToolName, "call_1", json.RawMessage(`{"location":"Berlin"}`))),
		message.New(message.RoleAssistant,
			message.Text("It is mostly sunny in Berlin.")),
	)
	runner := newRunner(t, p, nil)

	res, err := runner.Run(context.Background(), weatherWorkflow(), "What's the weather in Berlin?", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ready", "prompt_executed", "ready", "prompt_executed", "end"}, res.Path)
	assert.Equal(t, 2, res.Turns)
	assert.Equal(t, 1, res.Dispatches)
	assert.Equal(t, "It is mostly sunny in Berlin.", res.Answer)

	// user, assistant tool call, tool result, assistant answer
	require.Len(t, res.History, 4)
	assert.Equal(t, message.RoleUser, res.History[0].Role)
	assert.Equal(t, message.RoleAssistant, res.History[1].Role)
	assert.Equal(t, message.RoleTool, res.History[2].Role)
	assert.Equal(t, message.RoleAssistant, res.History[3].Role)

	result := res.History[2].Parts[0]
	assert.Equal(t, "call_1", result.CallID)
	assert.Equal(t, message.StateOutputAvailable, result.State)
	require.NotNil(t, result.Output)
	assert.Equal(t, tool.WeatherReport, result.Output.Value)

	// The second generation must see the tool result.
	require.Equal(t, 2, p.Calls())
	assert.Len(t, p.HistoryAt(1), 3)
}

func TestRunTextOnly(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted",
		message.New(message.RoleAssistant, message.Text("Just an answer.")))
	runner := newRunner(t, p, nil)

	res, err := runner.Run(context.Background(), weatherWorkflow(), "Say something.", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ready", "prompt_executed", "end"}, res.Path)
	assert.Equal(t, 1, res.Turns)
	assert.Equal(t, 0, res.Dispatches)
	assert.Equal(t, "Just an answer.", res.Answer)
	assert.Len(t, res.History, 2)
}

func TestRunParallelToolCalls(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted",
		message.New(message.RoleAssistant,
			message.ToolCall(tool.WeatherToolName, "call_1", json.RawMessage(`{"location":"Berlin"}`)),
			message.ToolCall(tool.WeatherToolName, "call_2", json.RawMessage(`{"location":"Munich"}`)),
		),
		message.New(message.RoleAssistant, message.Text("Both sunny.")),
	)
	runner := newRunner(t, p, nil)

	res, err := runner.Run(context.Background(), weatherWorkflow(), "Berlin and Munich?", nil)
	require.NoError(t, err)

	// Both calls are answered by a single dispatch, in request order.
	assert.Equal(t, 1, res.Dispatches)
	results := res.History[2].Parts
	require.Len(t, results, 2)
	assert.Equal(t, "call_1", results[0].CallID)
	assert.Equal(t, "call_2", results[1].CallID)
}

func TestRunMaxTurns(t *testing.T) {
	toolCall := func() *message.Message {
		return message.New(message.RoleAssistant,
			message.ToolCall(tool.WeatherToolName, "call_x", json.RawMessage(`{"location":"Berlin"}`)))
	}
	p := testutil.NewScriptedProvider("scripted", toolCall(), toolCall(), toolCall())
	runner := newRunner(t, p, nil)

	wf := weatherWorkflow()
	wf.MaxTurns = 2

	_, err := runner.Run(context.Background(), wf, "loop forever", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, runtime.ErrMaxTurns)
	assert.Equal(t, 2, p.Calls())
}

func TestRunSystemMessageAndVars(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted",
		message.New(message.RoleAssistant, message.Text("ok")))
	runner := newRunner(t, p, nil)

	wf := weatherWorkflow()
	wf.System = "You answer about {{city}}."

	_, err := runner.Run(context.Background(), wf, "Weather in {{city}}?",
		map[string]string{"city": "Berlin"})
	require.NoError(t, err)

	history := p.HistoryAt(0)
	require.Len(t, history, 2)
	assert.Equal(t, message.RoleSystem, history[0].Role)
	assert.Equal(t, "You answer about Berlin.", history[0].TextContent())
	assert.Equal(t, "Weather in Berlin?", history[1].TextContent())
}

func TestRunWorkflowModelReachesProvider(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted",
		message.New(message.RoleAssistant, message.Text("ok")))
	runner := newRunner(t, p, nil)

	wf := weatherWorkflow()
	wf.Model = "gpt-4o-mini"

	_, err := runner.Run(context.Background(), wf, "hi", nil)
	require.NoError(t, err)

	require.Equal(t, 1, p.Calls())
	assert.Equal(t, "gpt-4o-mini", p.ModelAt(0))
}

func TestRunUnknownProvider(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted")
	runner := newRunner(t, p, nil)

	wf := weatherWorkflow()
	wf.Provider = "missing"

	_, err := runner.Run(context.Background(), wf, "hi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestRunUnknownTool(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted")
	runner := newRunner(t, p, nil)

	wf := weatherWorkflow()
	wf.Tools = []string{"Nope"}

	_, err := runner.Run(context.Background(), wf, "hi", nil)
	require.Error(t, err)
}

func TestRunRecordsDocuments(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted",
		message.New(message.RoleAssistant,
			message.ToolCall(tool.WeatherToolName, "call_1", json.RawMessage(`{"location":"Berlin"}`))),
		message.New(message.RoleAssistant, message.Text("sunny")),
	)
	store := document.NewMemoryStore()
	runner := newRunner(t, p, store)

	wf := weatherWorkflow()
	wf.System = "Be brief."

	_, err := runner.Run(context.Background(), wf, "Berlin?", nil)
	require.NoError(t, err)

	docs := store.Documents()
	require.Len(t, docs, 5)
	for i, doc := range docs {
		assert.Equal(t, "weather", doc.Workflow)
		assert.Equal(t, i, doc.Seq)
	}
	assert.Equal(t, message.RoleSystem, docs[0].Role)
	assert.Equal(t, message.RoleUser, docs[1].Role)
	assert.Equal(t, message.RoleTool, docs[3].Role)
}

// brokenTool always fails, to exercise dispatch error handling.
type brokenTool struct{}

func (brokenTool) Name() string        { return "Broken" }
func (brokenTool) Description() string { return "always fails" }

func (brokenTool) Schema() (*jsonschema.Schema, error) {
	return &jsonschema.Schema{Type: "object"}, nil
}

func (brokenTool) Execute(ctx context.Context, input json.RawMessage) (*tool.Result, error) {
	return nil, fmt.Errorf("broken")
}

func TestRunDispatchFailureFailsRun(t *testing.T) {
	providers := provider.NewRegistry()
	p := testutil.NewScriptedProvider("scripted",
		message.New(message.RoleAssistant,
			message.ToolCall("Broken", "call_1", json.RawMessage(`{}`))))
	providers.Register(p.Name(), p)

	tools, err := tool.NewRegistry(brokenTool{})
	require.NoError(t, err)

	runner, err := runtime.NewRunner(runtime.RunnerConfig{
		Providers: providers,
		Tools:     tools,
		MaxTurns:  8,
	})
	require.NoError(t, err)

	wf := workflow.Workflow{Name: "broken", Tools: []string{"Broken"}}
	wf.Normalize()

	_, err = runner.Run(context.Background(), wf, "go", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestRunCancelledContext(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted")
	runner := newRunner(t, p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, weatherWorkflow(), "hi", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunnerRequiresCollaborators(t *testing.T) {
	tools, err := tool.NewRegistry()
	require.NoError(t, err)

	_, err = runtime.NewRunner(runtime.RunnerConfig{Tools: tools})
	assert.Error(t, err)

	_, err = runtime.NewRunner(runtime.RunnerConfig{Providers: provider.NewRegistry()})
	assert.Error(t, err)
}
