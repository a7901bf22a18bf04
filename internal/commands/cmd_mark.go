package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/core/task"
	"github.com/colonyops/tasktracker/internal/tracker"
)

// MarkCmd registers one mark-<status> command per task status.
type MarkCmd struct {
	flags *Flags
	app   *tracker.App
}

// NewMarkCmd creates the mark-* commands
func NewMarkCmd(flags *Flags, app *tracker.App) *MarkCmd {
	return &MarkCmd{flags: flags, app: app}
}

// Register adds mark-todo, mark-in-progress and mark-done to the application
func (cmd *MarkCmd) Register(app *cli.Command) *cli.Command {
	for _, status := range task.Statuses() {
		name := "mark-" + status.String()
		app.Commands = append(app.Commands, &cli.Command{
			Name:          name,
			Usage:         fmt.Sprintf("Set the status of a task to %s", status),
			UsageText:     fmt.Sprintf("tasktracker %s <id>", name),
			ShellComplete: TaskIDCompleter(cmd.app),
			Action: func(ctx context.Context, c *cli.Command) error {
				return cmd.run(ctx, c, status)
			},
		})
	}

	return app
}

func (cmd *MarkCmd) run(ctx context.Context, c *cli.Command, status task.Status) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}

	id, err := taskIDArg(c, 0)
	if err != nil {
		return err
	}

	entry, err := cmd.app.Tasks.MarkStatus(ctx, id, status)
	if err != nil {
		return err
	}

	st := cmd.flags.Styles(c.Root().Writer)
	_, _ = fmt.Fprintf(c.Root().Writer, "Task %d marked as %s\n", entry.ID, st.RenderStatus(status))
	return nil
}
