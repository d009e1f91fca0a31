package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"

	"github.com/agentdesk/agentdesk/internal/agentdesk"
)

type tool struct {
	descriptor Descriptor
	schema     *jsonschema.Schema
	invoke     HandlerFunc
}

// Registry maps tool names to handlers. It is immutable after construction
// and safe for concurrent Call/List.
type Registry struct {
	store *agentdesk.Store
	log   *zap.Logger
	tools map[string]*tool
	names []string
}

// NewRegistry builds the full catalog over the given store. Schemas are
// compiled once here; a malformed schema is a programming error surfaced at
// startup rather than per call.
func NewRegistry(store *agentdesk.Store, log *zap.Logger) (*Registry, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		store: store,
		log:   log,
		tools: map[string]*tool{},
	}
	for _, register := range []func() (Descriptor, HandlerFunc){
		r.createTaskTool,
		r.listTasksTool,
		r.updateTaskStatusTool,
		r.assignTaskTool,
		r.createNoteTool,
		r.listNotesTool,
		r.searchNotesTool,
		r.tagNoteTool,
		r.bookMeetingTool,
		r.listMeetingsTool,
		r.rescheduleMeetingTool,
		r.cancelMeetingTool,
		r.findFreeSlotsTool,
		r.createEmailTool,
		r.listEmailsTool,
		r.searchEmailsTool,
		r.organizeEmailTool,
		r.markEmailReadTool,
		r.draftReplyTool,
		r.filterSpamTool,
	} {
		descriptor, handler := register()
		if err := r.add(descriptor, handler); err != nil {
			return nil, err
		}
	}
	sort.Strings(r.names)
	return r, nil
}

func (r *Registry) add(descriptor Descriptor, handler HandlerFunc) error {
	if _, exists := r.tools[descriptor.Name]; exists {
		return fmt.Errorf("duplicate tool name: %s", descriptor.Name)
	}
	compiled, err := compileInputSchema(descriptor.Name, descriptor.InputSchema)
	if err != nil {
		return err
	}
	r.tools[descriptor.Name] = &tool{
		descriptor: descriptor,
		schema:     compiled,
		invoke:     handler,
	}
	r.names = append(r.names, descriptor.Name)
	return nil
}

// List returns every tool descriptor in stable name order.
func (r *Registry) List() []Descriptor {
	descriptors := make([]Descriptor, 0, len(r.names))
	for _, name := range r.names {
		descriptors = append(descriptors, r.tools[name].descriptor)
	}
	return descriptors
}

// Call dispatches a tool invocation. It never returns a Go error: unknown
// names, invalid arguments, handler failures, and handler panics all come
// back as failure envelopes, and the server keeps serving subsequent calls.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) CallToolResult {
	t, ok := r.tools[name]
	if !ok {
		r.log.Warn("unknown tool requested", zap.String("tool", name))
		return failureResult(fmt.Sprintf("Unknown tool: %s", name))
	}
	if err := validateArgs(t.schema, args); err != nil {
		r.log.Info("tool arguments rejected", zap.String("tool", name), zap.Error(err))
		return failureResult(fmt.Sprintf("invalid arguments for %s: %s", name, err))
	}

	payload, err := r.safeInvoke(ctx, t, args)
	if err != nil {
		r.log.Info("tool call failed", zap.String("tool", name), zap.Error(err))
		return failureResult(err.Error())
	}
	if payload == nil {
		payload = map[string]any{}
	}
	payload["success"] = true
	r.log.Debug("tool call succeeded", zap.String("tool", name))
	return textResult(payload, false)
}

func (r *Registry) safeInvoke(ctx context.Context, t *tool, args json.RawMessage) (payload map[string]any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("tool handler panicked",
				zap.String("tool", t.descriptor.Name),
				zap.Any("panic", rec))
			payload = nil
			err = fmt.Errorf("%v", rec)
		}
	}()
	return t.invoke(ctx, args)
}
