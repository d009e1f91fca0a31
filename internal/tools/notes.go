package tools

import (
	"context"
	"encoding/json"

	"github.com/agentdesk/agentdesk/internal/agentdesk"
)

type createNoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Folder  string `json:"folder"`
}

func (r *Registry) createNoteTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "create_note",
		Description: "Create a note. The content is scanned for known keywords and matching tags are suggested and applied automatically.",
		InputSchema: objectSchema(map[string]any{
			"title":   stringProp("Note title"),
			"content": stringProp("Note body"),
			"folder":  stringProp("Folder to file the note under (defaults to \"general\")"),
		}, "title"),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input createNoteInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		note, suggested, err := r.store.CreateNote(agentdesk.NoteCreate{
			Title:   input.Title,
			Content: input.Content,
			Folder:  input.Folder,
		})
		if err != nil {
			return nil, err
		}
		if suggested == nil {
			suggested = []string{}
		}
		return map[string]any{
			"note":          note,
			"aiSuggestions": map[string]any{"tags": suggested},
		}, nil
	}
}

type listNotesInput struct {
	Folder string `json:"folder"`
}

func (r *Registry) listNotesTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "list_notes",
		Description: "List notes, optionally restricted to a folder.",
		InputSchema: objectSchema(map[string]any{
			"folder": stringProp("Only return notes in this folder"),
		}),
		Annotations: readOnly(),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input listNotesInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		notes := r.store.ListNotes(input.Folder)
		return map[string]any{"notes": notes, "count": len(notes)}, nil
	}
}

type searchNotesInput struct {
	Query string `json:"query"`
}

func (r *Registry) searchNotesTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "search_notes",
		Description: "Search notes by keyword across title, content, and tags (case-insensitive substring match).",
		InputSchema: objectSchema(map[string]any{
			"query": stringProp("Keyword to search for"),
		}, "query"),
		Annotations: readOnly(),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input searchNotesInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		notes := r.store.SearchNotes(input.Query)
		return map[string]any{"notes": notes, "count": len(notes), "query": input.Query}, nil
	}
}

type tagNoteInput struct {
	NoteID string   `json:"noteId"`
	Tags   []string `json:"tags"`
}

func (r *Registry) tagNoteTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "tag_note",
		Description: "Add tags to a note. Tags already present are ignored; the tag set stays de-duplicated.",
		InputSchema: objectSchema(map[string]any{
			"noteId": stringProp("Identifier of the note to tag"),
			"tags":   stringArrayProp("Tags to add"),
		}, "noteId", "tags"),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input tagNoteInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		note, err := r.store.TagNote(input.NoteID, input.Tags)
		if err != nil {
			return nil, err
		}
		return map[string]any{"note": note}, nil
	}
}
