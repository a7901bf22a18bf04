package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/tracker"
)

type UpdateCmd struct {
	flags *Flags
	app   *tracker.App
}

// NewUpdateCmd creates a new update command
func NewUpdateCmd(flags *Flags, app *tracker.App) *UpdateCmd {
	return &UpdateCmd{flags: flags, app: app}
}

// Register adds the update command to the application
func (cmd *UpdateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "update",
		Usage:         "Replace the description of a task",
		UsageText:     "tasktracker update <id> <description...>",
		ShellComplete: TaskIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *UpdateCmd) run(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}

	id, err := taskIDArg(c, 0)
	if err != nil {
		return err
	}

	entry, err := cmd.app.Tasks.Update(ctx, id, joinArgs(c, 1))
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Task updated successfully (ID: %d)\n", entry.ID)
	return nil
}
