// Package agentdesk holds the in-memory productivity store: tasks, notes,
// meetings, and emails, each an independent keyed collection owned
// exclusively by the Store.
package agentdesk

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// StoreOptions configures a Store. Zero values select the defaults: a fresh
// random ID generator, the real clock, and no persistence.
type StoreOptions struct {
	// StateBackend persists a snapshot after every mutation and restores it
	// at construction. Nil disables persistence.
	StateBackend StateBackend

	// StateFile is a convenience for a JSON file backend when StateBackend
	// is nil.
	StateFile string

	IDs IDGenerator
	Now func() time.Time
}

// persistedState is the snapshot unit exchanged with a StateBackend.
type persistedState struct {
	Tasks    map[string]Task    `json:"tasks"`
	Notes    map[string]Note    `json:"notes"`
	Meetings map[string]Meeting `json:"meetings"`
	Emails   map[string]Email   `json:"emails"`
}

// StateBackend loads and saves whole-store snapshots. Implementations must
// tolerate Load before any Save (returning a nil snapshot).
type StateBackend interface {
	Load() (*persistedState, error)
	Save(state *persistedState) error
}

type stateBackendCloser interface {
	Close() error
}

// Store owns the four entity collections. All exported methods are safe for
// concurrent use; mutations are synchronous and persist before returning.
type Store struct {
	mu       sync.RWMutex
	tasks    map[string]Task
	notes    map[string]Note
	meetings map[string]Meeting
	emails   map[string]Email

	ids          IDGenerator
	now          func() time.Time
	stateBackend StateBackend

	closeOnce sync.Once
}

func NewStore() *Store {
	return NewStoreWithOptions(StoreOptions{})
}

func NewStoreWithOptions(opts StoreOptions) *Store {
	stateBackend := opts.StateBackend
	if stateBackend == nil && strings.TrimSpace(opts.StateFile) != "" {
		stateBackend = NewJSONFileStateBackend(opts.StateFile)
	}
	ids := opts.IDs
	if ids == nil {
		ids = NewRandomIDGenerator()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Store{
		tasks:        map[string]Task{},
		notes:        map[string]Note{},
		meetings:     map[string]Meeting{},
		emails:       map[string]Email{},
		ids:          ids,
		now:          now,
		stateBackend: stateBackend,
	}
	// Best-effort restore; a missing or empty snapshot starts clean.
	_ = s.Reload()
	return s
}

// Reload replaces in-memory state with the backend's current snapshot.
// It is a no-op without a backend or when the backend holds nothing yet.
func (s *Store) Reload() error {
	if s.stateBackend == nil {
		return nil
	}
	snapshot, err := s.stateBackend.Load()
	if err != nil {
		return err
	}
	if snapshot == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if snapshot.Tasks != nil {
		s.tasks = snapshot.Tasks
	}
	if snapshot.Notes != nil {
		s.notes = snapshot.Notes
	}
	if snapshot.Meetings != nil {
		s.meetings = snapshot.Meetings
	}
	if snapshot.Emails != nil {
		s.emails = snapshot.Emails
	}
	return nil
}

// Close releases the state backend if it owns external resources.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		if closer, ok := s.stateBackend.(stateBackendCloser); ok && closer != nil {
			_ = closer.Close()
		}
	})
}

// saveLocked snapshots current state into the backend. Callers hold s.mu.
func (s *Store) saveLocked() error {
	if s.stateBackend == nil {
		return nil
	}
	snapshot := persistedState{
		Tasks:    s.tasks,
		Notes:    s.notes,
		Meetings: s.meetings,
		Emails:   s.emails,
	}
	return s.stateBackend.Save(&snapshot)
}

// Counts reports per-collection record counts, used by the status surface.
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"tasks":    len(s.tasks),
		"notes":    len(s.notes),
		"meetings": len(s.meetings),
		"emails":   len(s.emails),
	}
}

func sortTasks(tasks []Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}

func sortNotes(notes []Note) {
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
}

func sortMeetings(meetings []Meeting) {
	sort.Slice(meetings, func(i, j int) bool {
		if meetings[i].StartTime.Equal(meetings[j].StartTime) {
			return meetings[i].ID < meetings[j].ID
		}
		return meetings[i].StartTime.Before(meetings[j].StartTime)
	})
}

func sortEmails(emails []Email) {
	sort.Slice(emails, func(i, j int) bool {
		if emails[i].ReceivedAt.Equal(emails[j].ReceivedAt) {
			return emails[i].ID < emails[j].ID
		}
		return emails[i].ReceivedAt.Before(emails[j].ReceivedAt)
	})
}
