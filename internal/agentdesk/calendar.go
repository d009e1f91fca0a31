package agentdesk

import (
	"fmt"
	"time"
)

// Working hours for slot finding: hourly slots from 09:00 up to but not
// including 17:00 on the requested date.
const (
	workdayStartHour = 9
	workdayEndHour   = 17
)

type MeetingCreate struct {
	Title           string
	Description     string
	Participants    []string
	StartTime       time.Time
	DurationMinutes int
}

type MeetingFilter struct {
	Status      string
	Participant string
}

// BookMeeting inserts a scheduled meeting. No overlap check is enforced at
// booking time; conflicting meetings are allowed to coexist.
func (s *Store) BookMeeting(in MeetingCreate) (Meeting, error) {
	if in.Title == "" {
		return Meeting{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.StartTime.IsZero() {
		return Meeting{}, fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if in.DurationMinutes <= 0 {
		return Meeting{}, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	start := in.StartTime.UTC()
	meeting := Meeting{
		ID:           s.ids.NewID(),
		Title:        in.Title,
		Description:  in.Description,
		Participants: append([]string{}, in.Participants...),
		StartTime:    start,
		EndTime:      start.Add(time.Duration(in.DurationMinutes) * time.Minute),
		Status:       MeetingStatusScheduled,
	}
	s.meetings[meeting.ID] = meeting
	if err := s.saveLocked(); err != nil {
		return Meeting{}, err
	}
	return meeting, nil
}

func (s *Store) GetMeeting(id string) (Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meeting, ok := s.meetings[id]
	if !ok {
		return Meeting{}, &NotFoundError{Entity: "Meeting"}
	}
	return meeting, nil
}

// RescheduleMeeting moves a meeting to a new start time. A zero duration
// keeps the meeting's current length.
func (s *Store) RescheduleMeeting(id string, start time.Time, durationMinutes int) (Meeting, error) {
	if start.IsZero() {
		return Meeting{}, fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if durationMinutes < 0 {
		return Meeting{}, fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	meeting, ok := s.meetings[id]
	if !ok {
		return Meeting{}, &NotFoundError{Entity: "Meeting"}
	}
	length := meeting.EndTime.Sub(meeting.StartTime)
	if durationMinutes > 0 {
		length = time.Duration(durationMinutes) * time.Minute
	}
	meeting.StartTime = start.UTC()
	meeting.EndTime = meeting.StartTime.Add(length)
	meeting.Status = MeetingStatusScheduled
	s.meetings[id] = meeting
	if err := s.saveLocked(); err != nil {
		return Meeting{}, err
	}
	return meeting, nil
}

func (s *Store) CancelMeeting(id string) (Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meeting, ok := s.meetings[id]
	if !ok {
		return Meeting{}, &NotFoundError{Entity: "Meeting"}
	}
	meeting.Status = MeetingStatusCancelled
	s.meetings[id] = meeting
	if err := s.saveLocked(); err != nil {
		return Meeting{}, err
	}
	return meeting, nil
}

func (s *Store) ListMeetings(f MeetingFilter) []Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meetings := make([]Meeting, 0, len(s.meetings))
	for _, meeting := range s.meetings {
		if f.Status != "" && meeting.Status != f.Status {
			continue
		}
		if f.Participant != "" && !containsString(meeting.Participants, f.Participant) {
			continue
		}
		meetings = append(meetings, meeting)
	}
	sortMeetings(meetings)
	return meetings
}

// FindFreeSlots returns the start times of free one-hour slots between 09:00
// and 17:00 UTC on the given date. A slot is busy when any scheduled meeting
// overlaps it; cancelled and completed meetings never block a slot. When
// participants are given, only meetings sharing at least one of them count
// as conflicts.
func (s *Store) FindFreeSlots(date time.Time, participants []string) []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	var free []time.Time
	for hour := workdayStartHour; hour < workdayEndHour; hour++ {
		slotStart := day.Add(time.Duration(hour) * time.Hour)
		slotEnd := slotStart.Add(time.Hour)
		busy := false
		for _, meeting := range s.meetings {
			if meeting.Status != MeetingStatusScheduled {
				continue
			}
			if len(participants) > 0 && !sharesParticipant(meeting.Participants, participants) {
				continue
			}
			if meeting.StartTime.Before(slotEnd) && meeting.EndTime.After(slotStart) {
				busy = true
				break
			}
		}
		if !busy {
			free = append(free, slotStart)
		}
	}
	return free
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func sharesParticipant(a, b []string) bool {
	for _, v := range a {
		if containsString(b, v) {
			return true
		}
	}
	return false
}
