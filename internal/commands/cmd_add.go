package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/tracker"
)

type AddCmd struct {
	flags *Flags
	app   *tracker.App
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *tracker.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a new task",
		UsageText: "tasktracker add <description...>",
		Description: `Adds a task with status todo at the lowest free ID.

All remaining arguments are joined with spaces, so quoting is optional:
  tasktracker add buy milk`,
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}

	entry, err := cmd.app.Tasks.Add(ctx, joinArgs(c, 0))
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Task added successfully (ID: %d)\n", entry.ID)
	return nil
}
