package tools

import (
	"context"
	"encoding/json"

	"github.com/agentdesk/agentdesk/internal/agentdesk"
)

type createTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	Priority    string `json:"priority"`
}

func (r *Registry) createTaskTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "create_task",
		Description: "Create a new task. New tasks start in status \"todo\"; priority defaults to \"medium\".",
		InputSchema: objectSchema(map[string]any{
			"title":       stringProp("Short task title"),
			"description": stringProp("Longer task description"),
			"assignee":    stringProp("Person responsible for the task"),
			"priority":    enumProp("Task priority", "low", "medium", "high"),
		}, "title"),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input createTaskInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		task, err := r.store.CreateTask(agentdesk.TaskCreate{
			Title:       input.Title,
			Description: input.Description,
			Assignee:    input.Assignee,
			Priority:    input.Priority,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"task": task}, nil
	}
}

type listTasksInput struct {
	Status   string `json:"status"`
	Assignee string `json:"assignee"`
	Priority string `json:"priority"`
}

func (r *Registry) listTasksTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "list_tasks",
		Description: "List tasks, optionally filtered by status, assignee, or priority.",
		InputSchema: objectSchema(map[string]any{
			"status":   enumProp("Only return tasks in this status", "todo", "in-progress", "done"),
			"assignee": stringProp("Only return tasks assigned to this person"),
			"priority": enumProp("Only return tasks with this priority", "low", "medium", "high"),
		}),
		Annotations: readOnly(),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input listTasksInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		tasks := r.store.ListTasks(agentdesk.TaskFilter{
			Status:   input.Status,
			Assignee: input.Assignee,
			Priority: input.Priority,
		})
		return map[string]any{"tasks": tasks, "count": len(tasks)}, nil
	}
}

type updateTaskStatusInput struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

func (r *Registry) updateTaskStatusTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "update_task_status",
		Description: "Update the status of an existing task.",
		InputSchema: objectSchema(map[string]any{
			"taskId": stringProp("Identifier of the task to update"),
			"status": enumProp("New task status", "todo", "in-progress", "done"),
		}, "taskId", "status"),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input updateTaskStatusInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		task, err := r.store.UpdateTaskStatus(input.TaskID, input.Status)
		if err != nil {
			return nil, err
		}
		return map[string]any{"task": task}, nil
	}
}

type assignTaskInput struct {
	TaskID   string `json:"taskId"`
	Assignee string `json:"assignee"`
}

func (r *Registry) assignTaskTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "assign_task",
		Description: "Assign a task to a person.",
		InputSchema: objectSchema(map[string]any{
			"taskId":   stringProp("Identifier of the task to assign"),
			"assignee": stringProp("Person to assign the task to"),
		}, "taskId", "assignee"),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input assignTaskInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		task, err := r.store.AssignTask(input.TaskID, input.Assignee)
		if err != nil {
			return nil, err
		}
		return map[string]any{"task": task}, nil
	}
}
