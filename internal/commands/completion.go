package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/core/task"
	"github.com/colonyops/tasktracker/internal/tracker"
)

// TaskIDCompleter returns a ShellCompleteFunc that suggests task IDs as
// positional completions, followed by the task description.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func TaskIDCompleter(app *tracker.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if app.Tasks == nil {
			return
		}

		entries, err := app.Tasks.List(ctx, task.ListFilter{})
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, e := range entries {
			_, _ = fmt.Fprintf(w, "%d:%s\n", e.ID, e.Task.Description)
		}
	}
}
