package doctor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/colonyops/tasktracker/internal/core/calendar"
	"github.com/colonyops/tasktracker/internal/store/jsonfile"
)

// TasksFileCheck inspects the task file: that it can be read, that it matches
// the canonical schema, that it decodes strictly, and that every record has
// valid timestamps with updatedAt at or after createdAt.
type TasksFileCheck struct {
	path string
}

// NewTasksFileCheck creates a new task file check.
func NewTasksFileCheck(path string) *TasksFileCheck {
	return &TasksFileCheck{path: path}
}

func (c *TasksFileCheck) Name() string {
	return "Task File"
}

func (c *TasksFileCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	info, err := os.Stat(c.path)
	switch {
	case os.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusWarn,
			Detail: "does not exist, created on first add",
		})
		return result
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: fmt.Sprintf("inaccessible: %v", err),
		})
		return result
	case info.IsDir():
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: "path is a directory",
		})
		return result
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: fmt.Sprintf("unreadable: %v", err),
		})
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusPass,
			Detail: "empty",
		})
		return result
	}

	tasks, decodeErr := jsonfile.Decode(data, jsonfile.PolicyStrict)
	if decodeErr != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "decode",
			Status: StatusFail,
			Detail: decodeErr.Error(),
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "decode",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d tasks", len(tasks)),
		})
	}

	violations, err := jsonfile.ValidateSchema(data)
	switch {
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  "schema",
			Status: StatusFail,
			Detail: err.Error(),
		})
	case len(violations) == 0:
		result.Items = append(result.Items, CheckItem{
			Label:  "schema",
			Status: StatusPass,
		})
	default:
		// Rewriting the file fixes layout problems the strict decoder tolerates,
		// such as the legacy status spelling.
		for _, v := range violations {
			result.Items = append(result.Items, CheckItem{
				Label:   "schema",
				Status:  StatusWarn,
				Detail:  v.String(),
				Fixable: decodeErr == nil,
			})
		}
	}

	if decodeErr != nil {
		// A lenient decode still names the records whose fields were zero-filled.
		if tasks, err = jsonfile.Decode(data, jsonfile.PolicyLenient); err != nil {
			return result
		}
	}

	ids := make([]uint32, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		t := tasks[id]
		label := fmt.Sprintf("task %d", id)

		validTimes := true
		for _, f := range []struct {
			name string
			ts   calendar.Timestamp
		}{
			{"createdAt", t.CreatedAt},
			{"updatedAt", t.UpdatedAt},
		} {
			if item, ok := timestampItem(label, f.name, f.ts); !ok {
				result.Items = append(result.Items, item)
				validTimes = false
			}
		}

		if validTimes && t.UpdatedAt.Before(t.CreatedAt) {
			result.Items = append(result.Items, CheckItem{
				Label:  label,
				Status: StatusWarn,
				Detail: fmt.Sprintf("updatedAt %s precedes createdAt %s", t.UpdatedAt, t.CreatedAt),
			})
		}
	}

	return result
}

// timestampItem reports a record timestamp that does not name a real date.
func timestampItem(label, field string, ts calendar.Timestamp) (CheckItem, bool) {
	if ts.Valid() {
		return CheckItem{}, true
	}

	detail := fmt.Sprintf("%s %s is not a valid date", field, ts)
	if ts.IsZero() {
		detail = fmt.Sprintf("%s is missing or unparseable", field)
	}
	return CheckItem{Label: label, Status: StatusWarn, Detail: detail}, false
}
