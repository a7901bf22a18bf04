package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tasktracker/internal/core/task"
	"github.com/colonyops/tasktracker/pkg/iojson"
)

func TestBatchInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   BatchInput
		wantErr string
	}{
		{
			name:    "empty tasks",
			input:   BatchInput{Tasks: []BatchTask{}},
			wantErr: "tasks",
		},
		{
			name:    "blank description",
			input:   BatchInput{Tasks: []BatchTask{{Description: "  "}}},
			wantErr: "tasks[0].description",
		},
		{
			name: "bad status",
			input: BatchInput{Tasks: []BatchTask{
				{Description: "ok"},
				{Description: "ok", Status: "finished"},
			}},
			wantErr: "tasks[1].status",
		},
		{
			name: "valid",
			input: BatchInput{Tasks: []BatchTask{
				{Description: "a"},
				{Description: "b", Status: "DONE"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Equal(t, tt.wantErr, fieldErrs[0].Field)
		})
	}
}

func TestBatchCmd(t *testing.T) {
	tc := newTestCLI(t)

	input := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"tasks":[
		{"description":"buy milk"},
		{"description":"file taxes","status":"in-progress"},
		{"description":"old chore","status":"done"}
	]}`), 0o644))

	out := tc.mustRun(t, "batch", "-i", input)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	var last taskInfo
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, uint32(2), last.ID)
	assert.Equal(t, "done", last.Status)

	entries, err := tc.app.Tasks.List(context.Background(), task.WithStatus(task.StatusInProgress))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "file taxes", entries[0].Task.Description)
}

func TestBatchCmd_InvalidInputWritesNothing(t *testing.T) {
	tc := newTestCLI(t)

	input := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"tasks":[{"description":"fine"},{"description":""}]}`), 0o644))

	_, errOut, err := tc.runWithErr("batch", "-i", input)
	require.Error(t, err)

	var report iojson.Error
	require.NoError(t, json.Unmarshal([]byte(errOut), &report))
	assert.Equal(t, "invalid input", report.Message)
	assert.Contains(t, report.Data, "tasks[1].description")

	_, statErr := os.Stat(tc.app.Tasks.Path())
	assert.True(t, os.IsNotExist(statErr))
}
