// Package tracker holds the services the CLI commands call into.
package tracker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/tasktracker/internal/core/task"
	"github.com/colonyops/tasktracker/internal/core/validate"
	"github.com/colonyops/tasktracker/internal/store/jsonfile"
)

// TaskService runs one task operation per call against the task file. Each
// call loads the file, applies the change and saves it before returning.
type TaskService struct {
	path   string
	policy jsonfile.Policy
	opts   []jsonfile.Option
	log    zerolog.Logger
}

// NewTaskService creates a TaskService for the task file at path. Extra store
// options, such as a fixed clock, are applied on every open.
func NewTaskService(path string, policy jsonfile.Policy, log zerolog.Logger, opts ...jsonfile.Option) *TaskService {
	return &TaskService{
		path:   path,
		policy: policy,
		opts:   opts,
		log:    log,
	}
}

// Path returns the task file the service operates on.
func (s *TaskService) Path() string {
	return s.path
}

func (s *TaskService) open() (*jsonfile.TaskStore, error) {
	opts := append([]jsonfile.Option{
		jsonfile.WithPolicy(s.policy),
		jsonfile.WithLogger(s.log),
	}, s.opts...)

	store, err := jsonfile.Open(s.path, opts...)
	if err != nil {
		return nil, fmt.Errorf("open task file: %w", err)
	}
	return store, nil
}

// Add creates a todo task and returns it with its assigned ID.
func (s *TaskService) Add(ctx context.Context, description string) (task.Entry, error) {
	if err := validate.DescriptionField("description", description); err != nil {
		return task.Entry{}, err
	}

	store, err := s.open()
	if err != nil {
		return task.Entry{}, err
	}

	id, t, err := store.Add(description)
	if err != nil {
		return task.Entry{}, fmt.Errorf("add task: %w", err)
	}

	s.log.Info().Ctx(ctx).Uint32("id", id).Msg("task added")
	return task.Entry{ID: id, Task: t}, nil
}

// Update replaces the description of an existing task.
func (s *TaskService) Update(ctx context.Context, id uint32, description string) (task.Entry, error) {
	if err := validate.DescriptionField("description", description); err != nil {
		return task.Entry{}, err
	}

	store, err := s.open()
	if err != nil {
		return task.Entry{}, err
	}

	t, err := store.Update(id, description)
	if err != nil {
		return task.Entry{}, fmt.Errorf("update task: %w", err)
	}

	s.log.Info().Ctx(ctx).Uint32("id", id).Msg("task updated")
	return task.Entry{ID: id, Task: t}, nil
}

// Delete removes a task. Deleting an absent ID is not an error; the returned
// bool reports whether a task was removed.
func (s *TaskService) Delete(ctx context.Context, id uint32) (bool, error) {
	store, err := s.open()
	if err != nil {
		return false, err
	}

	removed, err := store.Delete(id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}

	s.log.Info().Ctx(ctx).Uint32("id", id).Bool("removed", removed).Msg("task deleted")
	return removed, nil
}

// MarkStatus sets the status of an existing task.
func (s *TaskService) MarkStatus(ctx context.Context, id uint32, status task.Status) (task.Entry, error) {
	store, err := s.open()
	if err != nil {
		return task.Entry{}, err
	}

	t, err := store.MarkStatus(id, status)
	if err != nil {
		return task.Entry{}, fmt.Errorf("mark task: %w", err)
	}

	s.log.Info().Ctx(ctx).Uint32("id", id).Stringer("status", status).Msg("task status changed")
	return task.Entry{ID: id, Task: t}, nil
}

// List returns the tasks matching filter in ascending ID order. The file is
// never written.
func (s *TaskService) List(ctx context.Context, filter task.ListFilter) ([]task.Entry, error) {
	store, err := s.open()
	if err != nil {
		return nil, err
	}

	entries, err := store.List(filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	s.log.Debug().Ctx(ctx).Int("count", len(entries)).Msg("tasks listed")
	return entries, nil
}

// Normalize rewrites the task file in canonical form and returns the number
// of tasks written. The file must decode under the strict policy.
func (s *TaskService) Normalize(ctx context.Context) (int, error) {
	store, err := jsonfile.Open(s.path, append([]jsonfile.Option{
		jsonfile.WithPolicy(jsonfile.PolicyStrict),
		jsonfile.WithLogger(s.log),
	}, s.opts...)...)
	if err != nil {
		return 0, fmt.Errorf("open task file: %w", err)
	}

	if err := store.Save(); err != nil {
		return 0, fmt.Errorf("rewrite task file: %w", err)
	}

	s.log.Info().Ctx(ctx).Int("tasks", store.Len()).Msg("task file normalized")
	return store.Len(), nil
}
