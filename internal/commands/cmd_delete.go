package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/tracker"
)

type DeleteCmd struct {
	flags *Flags
	app   *tracker.App
}

// NewDeleteCmd creates a new delete command
func NewDeleteCmd(flags *Flags, app *tracker.App) *DeleteCmd {
	return &DeleteCmd{flags: flags, app: app}
}

// Register adds the delete command to the application
func (cmd *DeleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "delete",
		Usage:         "Delete a task",
		UsageText:     "tasktracker delete <id>",
		Description:   "Deleting an ID that does not exist is not an error.",
		ShellComplete: TaskIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *DeleteCmd) run(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}

	id, err := taskIDArg(c, 0)
	if err != nil {
		return err
	}

	removed, err := cmd.app.Tasks.Delete(ctx, id)
	if err != nil {
		return err
	}

	if !removed {
		_, _ = fmt.Fprintf(stderr(c), "No task with ID %d\n", id)
		return nil
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Task deleted successfully (ID: %d)\n", id)
	return nil
}
