package logging

import "context"

type contextKey string

const (
	commandKey   contextKey = "command"
	tasksFileKey contextKey = "tasks_file"
)

// WithCommand adds the running command name to the context.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// WithTasksFile adds the task file path to the context.
func WithTasksFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, tasksFileKey, path)
}

// GetCommand retrieves the command name from the context.
// Returns empty string if not present.
func GetCommand(ctx context.Context) string {
	if v, ok := ctx.Value(commandKey).(string); ok {
		return v
	}
	return ""
}

// GetTasksFile retrieves the task file path from the context.
// Returns empty string if not present.
func GetTasksFile(ctx context.Context) string {
	if v, ok := ctx.Value(tasksFileKey).(string); ok {
		return v
	}
	return ""
}
