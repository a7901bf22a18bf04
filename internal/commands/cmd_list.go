package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/core/task"
	"github.com/colonyops/tasktracker/internal/tracker"
	"github.com/colonyops/tasktracker/pkg/iojson"
	"github.com/colonyops/tasktracker/pkg/tmpl"
)

type ListCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	jsonOutput bool
	match      string
	format     string
}

// NewListCmd creates a new list command
func NewListCmd(flags *Flags, app *tracker.App) *ListCmd {
	return &ListCmd{flags: flags, app: app}
}

// Register adds the list command to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "list",
		Usage:     "List tasks",
		UsageText: "tasktracker list [--match <glob>] [--json | --format <template>] [todo|in-progress|done]",
		Description: `Displays a table of tasks in ID order, optionally filtered by status.

--match filters descriptions with a glob such as "buy *" or "*report*".
Use --json for one JSON object per line, or --format to render each task with
a Go template. Template fields are .ID, .Description, .Status, .CreatedAt and
.UpdatedAt; functions shq, join, upper, lower, pad and trunc are available.

  tasktracker list --format '{{ .ID }}: {{ .Description }} ({{ .Status }})'`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.StringFlag{
				Name:        "match",
				Aliases:     []string{"m"},
				Usage:       "only list tasks whose description matches the glob",
				Destination: &cmd.match,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "render each task with a Go template",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ListCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.jsonOutput && cmd.format != "" {
		return fmt.Errorf("--json and --format cannot be used together")
	}

	var tpl *tmpl.Template
	if cmd.format != "" {
		var err error
		tpl, err = tmpl.Parse(cmd.format)
		if err != nil {
			return err
		}
	}

	filter := task.ListFilter{Match: cmd.match}
	if c.NArg() > 0 {
		status, err := task.ParseStatus(c.Args().First())
		if err != nil {
			return err
		}
		filter.Status = &status
	}

	entries, err := cmd.app.Tasks.List(ctx, filter)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, newTaskInfo(e)); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	if tpl != nil {
		for _, e := range entries {
			line, err := tpl.Execute(newTaskInfo(e))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, line)
		}
		return nil
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(stderr(c), "No tasks found")
		return nil
	}

	st := cmd.flags.Styles(out)

	// Status goes last so escape sequences do not skew the column widths.
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDESCRIPTION\tCREATED\tUPDATED\tSTATUS")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.Task.Description, e.Task.CreatedAt, e.Task.UpdatedAt, st.RenderStatus(e.Task.Status))
	}

	return w.Flush()
}

// taskInfo is the output format for tasktracker list --json and --format.
type taskInfo struct {
	ID          uint32 `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func newTaskInfo(e task.Entry) taskInfo {
	return taskInfo{
		ID:          e.ID,
		Description: e.Task.Description,
		Status:      e.Task.Status.String(),
		CreatedAt:   e.Task.CreatedAt.Format(),
		UpdatedAt:   e.Task.UpdatedAt.Format(),
	}
}
