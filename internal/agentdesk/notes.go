package agentdesk

import (
	"fmt"
	"strings"
)

type NoteCreate struct {
	Title   string
	Content string
	Folder  string
}

// autoTagGroups maps trigger keywords to a suggested tag. One tag is
// appended per matching group; there is no precedence between groups and
// stale tags are never removed.
var autoTagGroups = []struct {
	tag      string
	keywords []string
}{
	{tag: "urgent", keywords: []string{"urgent", "important"}},
	{tag: "meeting", keywords: []string{"meeting", "call"}},
	{tag: "idea", keywords: []string{"idea", "thought"}},
}

func suggestTags(content string) []string {
	lowered := strings.ToLower(content)
	var tags []string
	for _, group := range autoTagGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(lowered, keyword) {
				tags = append(tags, group.tag)
				break
			}
		}
	}
	return tags
}

// unionTags appends the additions that are not already present, preserving
// order. The union is idempotent: repeating a tag never grows the set.
func unionTags(existing, additions []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, tag := range existing {
		seen[tag] = true
	}
	result := existing
	for _, tag := range additions {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}

// CreateNote inserts a note and returns it together with the content-derived
// tag suggestions, which are also applied to the stored record.
func (s *Store) CreateNote(in NoteCreate) (Note, []string, error) {
	if in.Title == "" {
		return Note{}, nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	folder := in.Folder
	if folder == "" {
		folder = DefaultNoteFolder
	}
	suggested := suggestTags(in.Content)

	s.mu.Lock()
	defer s.mu.Unlock()
	note := Note{
		ID:        s.ids.NewID(),
		Title:     in.Title,
		Content:   in.Content,
		Tags:      unionTags([]string{}, suggested),
		Folder:    folder,
		CreatedAt: s.now().UTC(),
	}
	s.notes[note.ID] = note
	if err := s.saveLocked(); err != nil {
		return Note{}, nil, err
	}
	return note, suggested, nil
}

func (s *Store) GetNote(id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	note, ok := s.notes[id]
	if !ok {
		return Note{}, &NotFoundError{Entity: "Note"}
	}
	return note, nil
}

// TagNote unions the given tags into the note's tag set.
func (s *Store) TagNote(id string, tags []string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[id]
	if !ok {
		return Note{}, &NotFoundError{Entity: "Note"}
	}
	note.Tags = unionTags(note.Tags, tags)
	s.notes[id] = note
	if err := s.saveLocked(); err != nil {
		return Note{}, err
	}
	return note, nil
}

func (s *Store) ListNotes(folder string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notes := make([]Note, 0, len(s.notes))
	for _, note := range s.notes {
		if folder != "" && note.Folder != folder {
			continue
		}
		notes = append(notes, note)
	}
	sortNotes(notes)
	return notes
}

// SearchNotes matches the query against title, content, and tags.
func (s *Store) SearchNotes(query string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var notes []Note
	for _, note := range s.notes {
		fields := append([]string{note.Title, note.Content}, note.Tags...)
		if matchKeyword(query, fields...) {
			notes = append(notes, note)
		}
	}
	sortNotes(notes)
	return notes
}
