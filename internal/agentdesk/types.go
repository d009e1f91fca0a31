package agentdesk

import "time"

// Task statuses and priorities form closed value sets. The tool schema layer
// rejects unknown values before they reach the store; the store re-checks so
// programmatic callers get the same guarantee.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusDone       = "done"

	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

const (
	MeetingStatusScheduled = "scheduled"
	MeetingStatusCancelled = "cancelled"
	MeetingStatusCompleted = "completed"
)

const (
	EmailFolderInbox   = "inbox"
	EmailFolderSent    = "sent"
	EmailFolderDrafts  = "drafts"
	EmailFolderSpam    = "spam"
	EmailFolderArchive = "archive"
)

const DefaultNoteFolder = "general"

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Assignee    string    `json:"assignee,omitempty"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Folder    string    `json:"folder"`
	CreatedAt time.Time `json:"createdAt"`
}

type Meeting struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Participants []string  `json:"participants"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Status       string    `json:"status"`
}

type Email struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Folder     string    `json:"folder"`
	IsRead     bool      `json:"isRead"`
	IsSpam     bool      `json:"isSpam"`
	ReceivedAt time.Time `json:"receivedAt"`
}

func validTaskStatus(status string) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

func validTaskPriority(priority string) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

func validEmailFolder(folder string) bool {
	switch folder {
	case EmailFolderInbox, EmailFolderSent, EmailFolderDrafts, EmailFolderSpam, EmailFolderArchive:
		return true
	}
	return false
}
