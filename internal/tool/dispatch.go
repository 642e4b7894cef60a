package tool

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/LiboWorks/agentflow/internal/message"
)

// Dispatch executes every tool-call part of an LLM response message and
// returns a single result message. The result carries one output-available
// part per input tool-call part, preserving input order and call ids so the
// model can correlate outputs with its requests.
//
// A message without tool-call parts dispatches to an empty tool message.
// An unknown tool name or a failing tool aborts the dispatch; partial
// results are not returned.
func (r *Registry) Dispatch(ctx context.Context, msg *message.Message) (*message.Message, error) {
	result := message.New(message.RoleTool)

	for _, part := range msg.ToolCalls() {
		name := part.ToolName()

		out, err := r.Execute(ctx, name, part.Input)
		if err != nil {
			return nil, fmt.Errorf("dispatch %s: %w", name, err)
		}

		callID := part.CallID
		if callID == "" {
			callID = "call_" + uuid.NewString()
		}

		result.Parts = append(result.Parts, message.Part{
			Type:   part.Type,
			CallID: callID,
			Input:  part.Input,
			State:  message.StateOutputAvailable,
			Output: &message.Output{Type: out.Type, Value: out.Data},
		})
	}

	return result, nil
}
