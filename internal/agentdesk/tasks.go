package agentdesk

import "fmt"

type TaskCreate struct {
	Title       string
	Description string
	Assignee    string
	Priority    string
}

// TaskFilter narrows ListTasks. Empty fields match everything.
type TaskFilter struct {
	Status   string
	Assignee string
	Priority string
}

// CreateTask inserts a task with a fresh identifier. New tasks start at
// status "todo"; priority defaults to "medium".
func (s *Store) CreateTask(in TaskCreate) (Task, error) {
	if in.Title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	priority := in.Priority
	if priority == "" {
		priority = TaskPriorityMedium
	}
	if !validTaskPriority(priority) {
		return Task{}, fmt.Errorf("%w: priority %q", ErrInvalidInput, priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	task := Task{
		ID:          s.ids.NewID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      TaskStatusTodo,
		Assignee:    in.Assignee,
		Priority:    priority,
		CreatedAt:   s.now().UTC(),
	}
	s.tasks[task.ID] = task
	if err := s.saveLocked(); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (s *Store) GetTask(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return Task{}, &NotFoundError{Entity: "Task"}
	}
	return task, nil
}

func (s *Store) UpdateTaskStatus(id, status string) (Task, error) {
	if !validTaskStatus(status) {
		return Task{}, fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return Task{}, &NotFoundError{Entity: "Task"}
	}
	task.Status = status
	s.tasks[id] = task
	if err := s.saveLocked(); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (s *Store) AssignTask(id, assignee string) (Task, error) {
	if assignee == "" {
		return Task{}, fmt.Errorf("%w: assignee is required", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return Task{}, &NotFoundError{Entity: "Task"}
	}
	task.Assignee = assignee
	s.tasks[id] = task
	if err := s.saveLocked(); err != nil {
		return Task{}, err
	}
	return task, nil
}

// ListTasks copies all tasks and applies the filter's equality checks in
// sequence. Results are sorted by creation time, then ID.
func (s *Store) ListTasks(f TaskFilter) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if f.Status != "" && task.Status != f.Status {
			continue
		}
		if f.Assignee != "" && task.Assignee != f.Assignee {
			continue
		}
		if f.Priority != "" && task.Priority != f.Priority {
			continue
		}
		tasks = append(tasks, task)
	}
	sortTasks(tasks)
	return tasks
}
