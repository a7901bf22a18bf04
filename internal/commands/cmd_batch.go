package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/core/task"
	"github.com/colonyops/tasktracker/internal/core/validate"
	"github.com/colonyops/tasktracker/internal/tracker"
	"github.com/colonyops/tasktracker/pkg/iojson"
)

type BatchCmd struct {
	flags *Flags
	app   *tracker.App
	fr    *iojson.FileReader[BatchInput]
}

func NewBatchCmd(flags *Flags, app *tracker.App) *BatchCmd {
	return &BatchCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[BatchInput]{},
	}
}

func (cmd *BatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "batch",
		Usage: "Add multiple tasks from JSON input",
		UsageText: `tasktracker batch [options]

Read from stdin:
  echo '{"tasks":[{"description":"buy milk"}]}' | tasktracker batch

Read from file:
  tasktracker batch -i tasks-to-add.json`,
		Description: `Adds every task in the input, in order. The whole input is validated
before anything is written.

Input JSON schema:
  {
    "tasks": [
      {
        "description": "task text",
        "status": "optional status (todo, in-progress, done)"
      }
    ]
  }

Output is one JSON line per added task.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *BatchCmd) run(ctx context.Context, c *cli.Command) error {
	input, err := cmd.fr.Read()
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if err := input.Validate(); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			data := make(map[string]any, len(fieldErrs))
			for _, fe := range fieldErrs {
				data[fe.Field] = fe.Err.Error()
			}
			_ = iojson.WriteError(stderr(c), "invalid input", data)
		}
		return fmt.Errorf("invalid input: %w", err)
	}

	out := c.Root().Writer
	for i, item := range input.Tasks {
		entry, err := cmd.app.Tasks.Add(ctx, item.Description)
		if err != nil {
			return fmt.Errorf("tasks[%d]: %w", i, err)
		}

		if item.Status != "" {
			status, _ := task.ParseStatus(item.Status)
			if status != task.StatusTodo {
				if entry, err = cmd.app.Tasks.MarkStatus(ctx, entry.ID, status); err != nil {
					return fmt.Errorf("tasks[%d]: %w", i, err)
				}
			}
		}

		if err := iojson.WriteLine(out, newTaskInfo(entry)); err != nil {
			return fmt.Errorf("encode task: %w", err)
		}
	}

	return nil
}

// BatchInput is the JSON input schema for batch task creation.
type BatchInput struct {
	Tasks []BatchTask `json:"tasks"`
}

// BatchTask defines a single task to add.
type BatchTask struct {
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

// Validate checks the batch input for errors using criterio.
func (b BatchInput) Validate() error {
	if len(b.Tasks) == 0 {
		return criterio.NewFieldErrors("tasks", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, t := range b.Tasks {
		field := fmt.Sprintf("tasks[%d]", i)

		if err := validate.Description(t.Description); err != nil {
			errs = errs.Append(field+".description", err)
		}

		if t.Status != "" {
			if _, err := task.ParseStatus(t.Status); err != nil {
				errs = errs.Append(field+".status", err)
			}
		}
	}

	return errs.ToError()
}
