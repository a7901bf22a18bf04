package jsonfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/colonyops/tasktracker/internal/core/calendar"
	"github.com/colonyops/tasktracker/internal/core/task"
)

// TaskStore holds the task mapping in memory and persists it to a single
// JSON file. Every mutating method saves the whole file before returning.
type TaskStore struct {
	path   string
	policy Policy
	clock  calendar.Clock
	log    zerolog.Logger

	tasks  map[uint32]task.Task
	nextID uint32
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock sets the clock used to stamp created and updated times.
func WithClock(clock calendar.Clock) Option {
	return func(s *TaskStore) { s.clock = clock }
}

// WithPolicy sets the decode policy used when loading the file.
func WithPolicy(p Policy) Option {
	return func(s *TaskStore) { s.policy = p }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *TaskStore) { s.log = l }
}

// Open loads the task file at path. A missing or unreadable file yields an
// empty store; a file that cannot be decoded is an error.
func Open(path string, opts ...Option) (*TaskStore, error) {
	s := &TaskStore{
		path:   path,
		policy: PolicyStrict,
		clock:  calendar.SystemClock,
		log:    zerolog.Nop(),
		tasks:  make(map[uint32]task.Task),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	s.RecomputeNextID()

	return s, nil
}

// Path returns the file the store reads and writes.
func (s *TaskStore) Path() string {
	return s.path
}

func (s *TaskStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("cannot read task file, starting empty")
		}
		return nil
	}

	tasks, err := Decode(data, s.policy)
	if err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}
	s.tasks = tasks

	s.log.Debug().Str("path", s.path).Int("tasks", len(tasks)).Msg("loaded task file")
	return nil
}

// RecomputeNextID finds the smallest ID not currently in use.
func (s *TaskStore) RecomputeNextID() {
	var id uint32
	for {
		if _, ok := s.tasks[id]; !ok {
			break
		}
		id++
	}
	s.nextID = id
}

// NextID returns the ID the next Add will use.
func (s *TaskStore) NextID() uint32 {
	return s.nextID
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// Get returns the task with the given ID.
func (s *TaskStore) Get(id uint32) (task.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, notFound(id)
	}
	return t, nil
}

func (s *TaskStore) now() calendar.Timestamp {
	return calendar.NowFrom(s.clock)
}

// Add inserts a new todo task at the next free ID and saves.
func (s *TaskStore) Add(description string) (uint32, task.Task, error) {
	id := s.nextID
	t := task.New(description, s.now())
	s.tasks[id] = t
	s.RecomputeNextID()

	if err := s.Save(); err != nil {
		return id, t, err
	}
	return id, t, nil
}

// Update replaces the description of an existing task and saves. Nothing is
// written when the task does not exist.
func (s *TaskStore) Update(id uint32, description string) (task.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, notFound(id)
	}

	t.SetDescription(description, s.now())
	s.tasks[id] = t

	return t, s.Save()
}

// MarkStatus sets the status of an existing task and saves. Nothing is
// written when the task does not exist.
func (s *TaskStore) MarkStatus(id uint32, status task.Status) (task.Task, error) {
	if !status.IsValid() {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrInvalidStatus, status)
	}

	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, notFound(id)
	}

	t.SetStatus(status, s.now())
	s.tasks[id] = t

	return t, s.Save()
}

// Delete removes a task and saves. Deleting an absent ID is not an error; the
// returned bool reports whether anything was removed.
func (s *TaskStore) Delete(id uint32) (bool, error) {
	_, existed := s.tasks[id]
	delete(s.tasks, id)
	s.RecomputeNextID()

	return existed, s.Save()
}

// List returns the tasks matching filter in ascending ID order. It never
// writes to disk.
func (s *TaskStore) List(filter task.ListFilter) ([]task.Entry, error) {
	if filter.Match != "" && !doublestar.ValidatePattern(filter.Match) {
		return nil, fmt.Errorf("invalid match pattern %q: %w", filter.Match, doublestar.ErrBadPattern)
	}

	entries := make([]task.Entry, 0, len(s.tasks))
	for id, t := range s.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Match != "" {
			ok, err := doublestar.Match(filter.Match, t.Description)
			if err != nil {
				return nil, fmt.Errorf("match %q: %w", filter.Match, err)
			}
			if !ok {
				continue
			}
		}
		entries = append(entries, task.Entry{ID: id, Task: t})
	}

	slices.SortFunc(entries, func(a, b task.Entry) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	return entries, nil
}

// Save writes every task to the file atomically: the encoded file is written
// next to the target and renamed over it.
func (s *TaskStore) Save() error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create task file dir: %w", err)
		}
	}

	data := Encode(s.tasks)

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace task file: %w", err)
	}

	s.log.Debug().Str("path", s.path).Int("tasks", len(s.tasks)).Msg("saved task file")
	return nil
}

func notFound(id uint32) error {
	return fmt.Errorf("task %d: %w", id, task.ErrNotFound)
}
