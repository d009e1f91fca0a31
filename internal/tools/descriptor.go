// Package tools defines the productivity tool catalog and its dispatcher.
// Each tool pairs a descriptor (name, description, JSON input schema,
// read-only annotation) with a typed handler; the registry validates caller
// arguments against the schema before any handler runs.
package tools

import (
	"context"
	"encoding/json"
)

// Annotations carry behavior hints consumed by the transport layer, e.g. to
// skip confirmation prompts for pure reads.
type Annotations struct {
	ReadOnlyHint bool `json:"readOnlyHint"`
}

// Descriptor is the transport-facing shape of a tool, served verbatim
// through tools/list.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	Annotations *Annotations   `json:"annotations,omitempty"`
}

// HandlerFunc executes a tool call. The returned payload is merged into a
// success envelope; a non-nil error becomes a failure envelope. Arguments
// have already passed schema validation when a handler runs.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (map[string]any, error)

// CallToolResult is the uniform response envelope for tools/call.
type CallToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textResult(envelope map[string]any, isError bool) CallToolResult {
	data, err := json.Marshal(envelope)
	if err != nil {
		// Payloads are built from plain maps and tagged structs; a marshal
		// failure indicates a programming error but must still stay inside
		// the envelope contract.
		data = []byte(`{"success":false,"error":"failed to encode result"}`)
		isError = true
	}
	return CallToolResult{
		Content: []ToolContent{{Type: "text", Text: string(data)}},
		IsError: isError,
	}
}

func failureResult(message string) CallToolResult {
	return textResult(map[string]any{"success": false, "error": message}, true)
}

func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, v)
}
