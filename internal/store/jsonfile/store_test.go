package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tasktracker/internal/core/calendar"
	"github.com/colonyops/tasktracker/internal/core/task"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock(start int64) calendar.Clock {
	now := start
	return func() int64 {
		now++
		return now
	}
}

func seedFile(t *testing.T, tasks map[uint32]task.Task) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, Encode(tasks), 0o644))
	return path
}

func reopen(t *testing.T, path string) *TaskStore {
	t.Helper()

	s, err := Open(path)
	require.NoError(t, err)
	return s
}

func TestOpen_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "tasks.json")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint32(0), s.NextID())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "open must not create the file")
}

func TestOpen_UnreadableFileStartsEmpty(t *testing.T) {
	// A directory at the task file path cannot be read as a file.
	path := t.TempDir()

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestOpen_DecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"x"}]`), 0o644))

	_, err := Open(path)
	require.ErrorIs(t, err, ErrMissingField)

	_, err = Open(path, WithPolicy(PolicyLenient))
	require.NoError(t, err)
}

func TestRecomputeNextID(t *testing.T) {
	tests := []struct {
		name string
		ids  []uint32
		want uint32
	}{
		{"gap", []uint32{0, 1, 3}, 2},
		{"empty", nil, 0},
		{"contiguous", []uint32{0, 1, 2}, 3},
		{"missing zero", []uint32{1, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := make(map[uint32]task.Task)
			for _, id := range tt.ids {
				tasks[id] = task.New("x", ts(100))
			}

			s := reopen(t, seedFile(t, tasks))
			assert.Equal(t, tt.want, s.NextID())
		})
	}
}

func TestAdd_EmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	s, err := Open(path, WithClock(tickingClock(1700000000)))
	require.NoError(t, err)

	id, tk, err := s.Add("buy milk")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), id)
	assert.Equal(t, task.StatusTodo, tk.Status)
	assert.Equal(t, tk.CreatedAt, tk.UpdatedAt)
	assert.Equal(t, uint32(1), s.NextID())

	persisted := reopen(t, path)
	require.Equal(t, 1, persisted.Len())

	got, err := persisted.Get(0)
	require.NoError(t, err)
	assert.Equal(t, tk, got)
}

func TestAdd_FiveDigitYearReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	s, err := Open(path, WithClock(tickingClock(253402300799)))
	require.NoError(t, err)

	_, tk, err := s.Add("far future")
	require.NoError(t, err)
	assert.Equal(t, "10000/01/01 00:00:00", tk.CreatedAt.Format())

	got, err := reopen(t, path).Get(0)
	require.NoError(t, err)
	assert.Equal(t, tk, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	violations, err := ValidateSchema(data)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestAdd_FillsGap(t *testing.T) {
	path := seedFile(t, map[uint32]task.Task{
		0: task.New("a", ts(10)),
		1: task.New("b", ts(10)),
		3: task.New("d", ts(10)),
	})

	s := reopen(t, path)
	id, _, err := s.Add("c")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), id)
	assert.Equal(t, uint32(4), s.NextID())
}

func TestMarkStatus(t *testing.T) {
	before := ts(1700000000)
	path := seedFile(t, map[uint32]task.Task{
		5: task.New("ship release", before),
	})

	s, err := Open(path, WithClock(tickingClock(1700000000)))
	require.NoError(t, err)

	tk, err := s.MarkStatus(5, task.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, tk.Status)
	assert.True(t, tk.UpdatedAt.After(before))
	assert.Equal(t, before, tk.CreatedAt)

	persisted, err := reopen(t, path).Get(5)
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, persisted.Status)
}

func TestMarkStatus_NotFoundLeavesFileUntouched(t *testing.T) {
	path := seedFile(t, map[uint32]task.Task{
		5: task.New("ship release", ts(1700000000)),
	})
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	s := reopen(t, path)

	_, err = s.MarkStatus(99, task.StatusDone)
	require.ErrorIs(t, err, task.ErrNotFound)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, after)
	assert.Equal(t, 1, s.Len())
}

func TestMarkStatus_InvalidStatus(t *testing.T) {
	s := reopen(t, seedFile(t, map[uint32]task.Task{0: task.New("x", ts(1))}))

	_, err := s.MarkStatus(0, task.Status(42))
	require.ErrorIs(t, err, task.ErrInvalidStatus)
}

func TestUpdate(t *testing.T) {
	before := ts(1600000000)
	path := seedFile(t, map[uint32]task.Task{
		2: task.New("draft", before),
	})

	s, err := Open(path, WithClock(tickingClock(1700000000)))
	require.NoError(t, err)

	tk, err := s.Update(2, "final draft")
	require.NoError(t, err)
	assert.Equal(t, "final draft", tk.Description)
	assert.True(t, tk.UpdatedAt.After(tk.CreatedAt))

	_, err = s.Update(3, "nope")
	require.ErrorIs(t, err, task.ErrNotFound)

	persisted, err := reopen(t, path).Get(2)
	require.NoError(t, err)
	assert.Equal(t, "final draft", persisted.Description)
}

func TestDelete(t *testing.T) {
	path := seedFile(t, map[uint32]task.Task{
		0: task.New("a", ts(1)),
		1: task.New("b", ts(1)),
	})

	s := reopen(t, path)

	removed, err := s.Delete(0)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, uint32(0), s.NextID())

	assert.Equal(t, 1, reopen(t, path).Len())
}

func TestDelete_AbsentIsIdempotent(t *testing.T) {
	tasks := map[uint32]task.Task{
		0: task.New("a", ts(1)),
		1: task.New("b", ts(1)),
	}
	path := seedFile(t, tasks)

	s := reopen(t, path)

	removed, err := s.Delete(42)
	require.NoError(t, err)
	assert.False(t, removed)

	entries, err := reopen(t, path).List(task.ListFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, tasks[0], entries[0].Task)
	assert.Equal(t, tasks[1], entries[1].Task)
}

func TestDelete_AbsentInMissingFileCreatesIt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	s, err := Open(path)
	require.NoError(t, err)

	removed, err := s.Delete(7)
	require.NoError(t, err)
	assert.False(t, removed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Encode(nil), data)
	assert.Equal(t, 0, reopen(t, path).Len())
}

func TestList(t *testing.T) {
	mk := func(desc string, status task.Status) task.Task {
		tk := task.New(desc, ts(1))
		tk.Status = status
		return tk
	}

	path := seedFile(t, map[uint32]task.Task{
		0: mk("buy milk", task.StatusTodo),
		1: mk("write report", task.StatusInProgress),
		2: mk("buy bread", task.StatusInProgress),
		3: mk("call mom", task.StatusDone),
	})
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	s := reopen(t, path)

	t.Run("all", func(t *testing.T) {
		entries, err := s.List(task.ListFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 4)
		for i, e := range entries {
			assert.Equal(t, uint32(i), e.ID)
		}
	})

	t.Run("in progress only", func(t *testing.T) {
		entries, err := s.List(task.WithStatus(task.StatusInProgress))
		require.NoError(t, err)
		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.Equal(t, task.StatusInProgress, e.Task.Status)
		}
	})

	t.Run("match glob", func(t *testing.T) {
		entries, err := s.List(task.ListFilter{Match: "buy *"})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, uint32(0), entries[0].ID)
		assert.Equal(t, uint32(2), entries[1].ID)
	})

	t.Run("match and status", func(t *testing.T) {
		filter := task.WithStatus(task.StatusTodo)
		filter.Match = "buy *"
		entries, err := s.List(filter)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "buy milk", entries[0].Task.Description)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := s.List(task.ListFilter{Match: "buy [a"})
		require.Error(t, err)
	})

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, after, "list must not write")
}

func TestSave_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tasks.json")

	s, err := Open(path)
	require.NoError(t, err)

	_, _, err = s.Add("one")
	require.NoError(t, err)
	_, _, err = s.Add("two")
	require.NoError(t, err)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_Failure(t *testing.T) {
	dir := t.TempDir()
	// The parent of the task file is a regular file, so the save cannot succeed.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s, err := Open(filepath.Join(blocker, "tasks.json"))
	require.NoError(t, err)

	_, _, err = s.Add("doomed")
	require.Error(t, err)
}
