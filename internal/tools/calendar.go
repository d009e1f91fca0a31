package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentdesk/agentdesk/internal/agentdesk"
)

const slotDateLayout = "2006-01-02"

func parseStartTime(value string) (time.Time, error) {
	start, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid startTime %q: expected RFC 3339 timestamp", value)
	}
	return start, nil
}

type bookMeetingInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Participants []string `json:"participants"`
	StartTime    string   `json:"startTime"`
	Duration     int      `json:"duration"`
}

func (r *Registry) bookMeetingTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "book_meeting",
		Description: "Book a meeting. The end time is the start time plus the duration.",
		InputSchema: objectSchema(map[string]any{
			"title":        stringProp("Meeting title"),
			"description":  stringProp("Meeting description"),
			"participants": stringArrayProp("Participant names or addresses"),
			"startTime":    stringProp("Meeting start as an RFC 3339 timestamp"),
			"duration":     intProp("Meeting length in minutes"),
		}, "title", "startTime", "duration"),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input bookMeetingInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		start, err := parseStartTime(input.StartTime)
		if err != nil {
			return nil, err
		}
		meeting, err := r.store.BookMeeting(agentdesk.MeetingCreate{
			Title:           input.Title,
			Description:     input.Description,
			Participants:    input.Participants,
			StartTime:       start,
			DurationMinutes: input.Duration,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"meeting": meeting}, nil
	}
}

type listMeetingsInput struct {
	Status      string `json:"status"`
	Participant string `json:"participant"`
}

func (r *Registry) listMeetingsTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "list_meetings",
		Description: "List meetings, optionally filtered by status or participant.",
		InputSchema: objectSchema(map[string]any{
			"status":      enumProp("Only return meetings in this status", "scheduled", "cancelled", "completed"),
			"participant": stringProp("Only return meetings including this participant"),
		}),
		Annotations: readOnly(),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input listMeetingsInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		meetings := r.store.ListMeetings(agentdesk.MeetingFilter{
			Status:      input.Status,
			Participant: input.Participant,
		})
		return map[string]any{"meetings": meetings, "count": len(meetings)}, nil
	}
}

type rescheduleMeetingInput struct {
	MeetingID string `json:"meetingId"`
	StartTime string `json:"startTime"`
	Duration  int    `json:"duration"`
}

func (r *Registry) rescheduleMeetingTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "reschedule_meeting",
		Description: "Move a meeting to a new start time. Omitting the duration keeps the meeting's current length; a cancelled meeting is re-activated.",
		InputSchema: objectSchema(map[string]any{
			"meetingId": stringProp("Identifier of the meeting to reschedule"),
			"startTime": stringProp("New start as an RFC 3339 timestamp"),
			"duration":  intProp("New meeting length in minutes"),
		}, "meetingId", "startTime"),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input rescheduleMeetingInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		start, err := parseStartTime(input.StartTime)
		if err != nil {
			return nil, err
		}
		meeting, err := r.store.RescheduleMeeting(input.MeetingID, start, input.Duration)
		if err != nil {
			return nil, err
		}
		return map[string]any{"meeting": meeting}, nil
	}
}

type cancelMeetingInput struct {
	MeetingID string `json:"meetingId"`
}

func (r *Registry) cancelMeetingTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "cancel_meeting",
		Description: "Cancel a meeting. The record is kept with status \"cancelled\".",
		InputSchema: objectSchema(map[string]any{
			"meetingId": stringProp("Identifier of the meeting to cancel"),
		}, "meetingId"),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input cancelMeetingInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		meeting, err := r.store.CancelMeeting(input.MeetingID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"meeting": meeting}, nil
	}
}

type findFreeSlotsInput struct {
	Date         string   `json:"date"`
	Participants []string `json:"participants"`
}

func (r *Registry) findFreeSlotsTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "find_free_slots",
		Description: "Find free one-hour slots between 09:00 and 17:00 UTC on a date. A slot is taken when a scheduled meeting overlaps it; with participants given, only their meetings count as conflicts.",
		InputSchema: objectSchema(map[string]any{
			"date":         stringProp("Date to check, formatted YYYY-MM-DD"),
			"participants": stringArrayProp("Participants whose availability matters"),
		}, "date"),
		Annotations: readOnly(),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input findFreeSlotsInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		date, err := time.Parse(slotDateLayout, input.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", input.Date)
		}
		slots := r.store.FindFreeSlots(date, input.Participants)
		formatted := make([]string, 0, len(slots))
		for _, slot := range slots {
			formatted = append(formatted, slot.Format(time.RFC3339))
		}
		return map[string]any{
			"date":      input.Date,
			"freeSlots": formatted,
			"count":     len(formatted),
		}, nil
	}
}
