package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/agentdesk/agentdesk/internal/agentdesk"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	store := agentdesk.NewStoreWithOptions(agentdesk.StoreOptions{
		IDs: agentdesk.NewSequenceIDGenerator("id"),
	})
	registry, err := NewRegistry(store, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return registry
}

func decodeEnvelope(t *testing.T, result CallToolResult) map[string]any {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("len(content) = %d, want 1", len(result.Content))
	}
	if result.Content[0].Type != "text" {
		t.Fatalf("content type = %q, want text", result.Content[0].Type)
	}
	var envelope map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].Text), &envelope); err != nil {
		t.Fatalf("envelope is not JSON: %v\n%s", err, result.Content[0].Text)
	}
	return envelope
}

func callTool(t *testing.T, registry *Registry, name, args string) (CallToolResult, map[string]any) {
	t.Helper()
	result := registry.Call(context.Background(), name, json.RawMessage(args))
	return result, decodeEnvelope(t, result)
}

func TestListCatalog(t *testing.T) {
	registry := newTestRegistry(t)
	descriptors := registry.List()
	if len(descriptors) != 20 {
		t.Fatalf("len(descriptors) = %d, want 20", len(descriptors))
	}
	for i := 1; i < len(descriptors); i++ {
		if descriptors[i-1].Name >= descriptors[i].Name {
			t.Errorf("catalog not sorted: %q before %q", descriptors[i-1].Name, descriptors[i].Name)
		}
	}

	readOnlyTools := map[string]bool{
		"list_tasks":      true,
		"list_notes":      true,
		"search_notes":    true,
		"list_meetings":   true,
		"find_free_slots": true,
		"list_emails":     true,
		"search_emails":   true,
		"draft_reply":     true,
	}
	for _, d := range descriptors {
		if d.InputSchema == nil {
			t.Errorf("%s has no input schema", d.Name)
		}
		hinted := d.Annotations != nil && d.Annotations.ReadOnlyHint
		if readOnlyTools[d.Name] && !hinted {
			t.Errorf("%s missing readOnlyHint", d.Name)
		}
		if !readOnlyTools[d.Name] && hinted {
			t.Errorf("%s wrongly hinted read-only", d.Name)
		}
	}
}

func TestCallUnknownTool(t *testing.T) {
	registry := newTestRegistry(t)
	result, envelope := callTool(t, registry, "mystery_tool", `{}`)
	if !result.IsError {
		t.Error("isError = false for unknown tool")
	}
	if envelope["success"] != false {
		t.Errorf("success = %v, want false", envelope["success"])
	}
	if envelope["error"] != "Unknown tool: mystery_tool" {
		t.Errorf("error = %q", envelope["error"])
	}
}

func TestCallRejectsInvalidArguments(t *testing.T) {
	registry := newTestRegistry(t)

	result, envelope := callTool(t, registry, "create_task", `{"description":"no title"}`)
	if !result.IsError {
		t.Error("isError = false for missing required property")
	}
	msg, _ := envelope["error"].(string)
	if !strings.HasPrefix(msg, "invalid arguments for create_task:") {
		t.Errorf("error = %q, want invalid-arguments prefix", msg)
	}

	_, envelope = callTool(t, registry, "create_task", `{"title":"x","priority":"severe"}`)
	msg, _ = envelope["error"].(string)
	if !strings.HasPrefix(msg, "invalid arguments for create_task:") {
		t.Errorf("enum violation error = %q", msg)
	}
}

func TestCreateTaskEnvelope(t *testing.T) {
	registry := newTestRegistry(t)
	result, envelope := callTool(t, registry, "create_task", `{"title":"Write tests"}`)
	if result.IsError {
		t.Fatalf("isError = true: %v", envelope)
	}
	if envelope["success"] != true {
		t.Errorf("success = %v, want true", envelope["success"])
	}
	task, ok := envelope["task"].(map[string]any)
	if !ok {
		t.Fatalf("task payload missing: %v", envelope)
	}
	if task["status"] != "todo" || task["priority"] != "medium" {
		t.Errorf("task defaults = %v/%v, want todo/medium", task["status"], task["priority"])
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	registry := newTestRegistry(t)
	result, envelope := callTool(t, registry, "update_task_status", `{"taskId":"missing","status":"done"}`)
	if !result.IsError {
		t.Error("isError = false for missing task")
	}
	if envelope["success"] != false || envelope["error"] != "Task not found" {
		t.Errorf("envelope = %v, want Task not found failure", envelope)
	}
}

func TestNoteAutoTagEnvelope(t *testing.T) {
	registry := newTestRegistry(t)
	_, envelope := callTool(t, registry, "create_note", `{"title":"standup","content":"urgent meeting notes"}`)
	if envelope["success"] != true {
		t.Fatalf("envelope = %v", envelope)
	}
	ai, ok := envelope["aiSuggestions"].(map[string]any)
	if !ok {
		t.Fatalf("aiSuggestions missing: %v", envelope)
	}
	tags, _ := ai["tags"].([]any)
	if len(tags) != 2 || tags[0] != "urgent" || tags[1] != "meeting" {
		t.Errorf("suggested tags = %v, want [urgent meeting]", tags)
	}
}

func TestBookMeetingEnvelope(t *testing.T) {
	registry := newTestRegistry(t)
	_, envelope := callTool(t, registry, "book_meeting",
		`{"title":"Sync","participants":["ann"],"startTime":"2025-03-11T10:00:00Z","duration":30}`)
	if envelope["success"] != true {
		t.Fatalf("envelope = %v", envelope)
	}
	meeting := envelope["meeting"].(map[string]any)
	if meeting["endTime"] != "2025-03-11T10:30:00Z" {
		t.Errorf("endTime = %v, want 2025-03-11T10:30:00Z", meeting["endTime"])
	}
	if meeting["status"] != "scheduled" {
		t.Errorf("status = %v, want scheduled", meeting["status"])
	}
}

func TestBookMeetingRejectsBadStartTime(t *testing.T) {
	registry := newTestRegistry(t)
	result, envelope := callTool(t, registry, "book_meeting",
		`{"title":"Sync","startTime":"tomorrow","duration":30}`)
	if !result.IsError || envelope["success"] != false {
		t.Errorf("envelope = %v, want failure for unparseable time", envelope)
	}
}

func TestFindFreeSlotsEnvelope(t *testing.T) {
	registry := newTestRegistry(t)
	if _, envelope := callTool(t, registry, "book_meeting",
		`{"title":"Busy","startTime":"2025-03-12T09:00:00Z","duration":60}`); envelope["success"] != true {
		t.Fatalf("book_meeting failed: %v", envelope)
	}

	_, envelope := callTool(t, registry, "find_free_slots", `{"date":"2025-03-12"}`)
	if envelope["success"] != true {
		t.Fatalf("envelope = %v", envelope)
	}
	slots, _ := envelope["freeSlots"].([]any)
	if len(slots) != 7 {
		t.Fatalf("len(freeSlots) = %d, want 7: %v", len(slots), slots)
	}
	for _, raw := range slots {
		slot, err := time.Parse(time.RFC3339, raw.(string))
		if err != nil {
			t.Fatalf("slot %v is not RFC3339: %v", raw, err)
		}
		if slot.Hour() == 9 {
			t.Errorf("09:00 slot should be busy")
		}
	}

	result, envelope := callTool(t, registry, "find_free_slots", `{"date":"12/03/2025"}`)
	if !result.IsError || envelope["success"] != false {
		t.Errorf("envelope = %v, want failure for bad date format", envelope)
	}
}

func TestFilterSpamEnvelope(t *testing.T) {
	registry := newTestRegistry(t)
	if _, envelope := callTool(t, registry, "create_email",
		`{"from":"spam@x.com","subject":"offer","body":"click here to win free money"}`); envelope["success"] != true {
		t.Fatalf("create_email failed: %v", envelope)
	}
	if _, envelope := callTool(t, registry, "create_email",
		`{"from":"ann@x.com","subject":"agenda","body":"see attached"}`); envelope["success"] != true {
		t.Fatalf("create_email failed: %v", envelope)
	}

	_, envelope := callTool(t, registry, "filter_spam", `{}`)
	if envelope["success"] != true {
		t.Fatalf("envelope = %v", envelope)
	}
	if envelope["count"] != float64(1) {
		t.Errorf("count = %v, want 1", envelope["count"])
	}
	flagged, _ := envelope["flagged"].([]any)
	if len(flagged) != 1 {
		t.Fatalf("flagged = %v", flagged)
	}
	email := flagged[0].(map[string]any)
	if email["isSpam"] != true || email["folder"] != "spam" {
		t.Errorf("flagged email = %v, want isSpam in spam folder", email)
	}
}

func TestDraftReplyEnvelope(t *testing.T) {
	registry := newTestRegistry(t)
	_, envelope := callTool(t, registry, "create_email",
		`{"from":"ann@x.com","subject":"Budget","body":"numbers"}`)
	email := envelope["email"].(map[string]any)
	id := email["id"].(string)

	_, envelope = callTool(t, registry, "draft_reply", `{"emailId":"`+id+`","tone":"casual"}`)
	if envelope["success"] != true {
		t.Fatalf("envelope = %v", envelope)
	}
	draft := envelope["draft"].(map[string]any)
	if draft["to"] != "ann@x.com" || draft["subject"] != "Re: Budget" {
		t.Errorf("draft = %v", draft)
	}
}

func TestCallWithEmptyArguments(t *testing.T) {
	registry := newTestRegistry(t)
	// Optional-only schemas accept an absent arguments object.
	result := registry.Call(context.Background(), "list_tasks", nil)
	envelope := decodeEnvelope(t, result)
	if envelope["success"] != true {
		t.Errorf("envelope = %v, want success with no args", envelope)
	}
	if envelope["count"] != float64(0) {
		t.Errorf("count = %v, want 0", envelope["count"])
	}
}

func TestCallRecoversFromHandlerPanic(t *testing.T) {
	registry := newTestRegistry(t)
	err := registry.add(Descriptor{
		Name:        "explode",
		Description: "always panics",
		InputSchema: objectSchema(map[string]any{}),
	}, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		panic("boom")
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	result, envelope := callTool(t, registry, "explode", `{}`)
	if !result.IsError || envelope["success"] != false {
		t.Errorf("envelope = %v, want failure after panic", envelope)
	}
	if envelope["error"] != "boom" {
		t.Errorf("error = %v, want boom", envelope["error"])
	}

	// The registry keeps serving after a panic.
	_, envelope = callTool(t, registry, "create_task", `{"title":"still alive"}`)
	if envelope["success"] != true {
		t.Errorf("subsequent call failed: %v", envelope)
	}
}
