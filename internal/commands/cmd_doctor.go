package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/core/doctor"
	"github.com/colonyops/tasktracker/internal/core/styles"
	"github.com/colonyops/tasktracker/internal/tracker"
	"github.com/colonyops/tasktracker/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	app     *tracker.App
	format  string
	autofix bool
}

func NewDoctorCmd(flags *Flags, app *tracker.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your tasktracker setup",
		UsageText:   "tasktracker doctor [options]",
		Description: "Runs diagnostic checks on the configuration and the task file.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "autofix",
				Usage:       "rewrite the task file in canonical form when that fixes reported issues",
				Destination: &cmd.autofix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	switch cmd.format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q: must be text or json", cmd.format)
	}

	results := cmd.app.Doctor.RunChecks(ctx, cmd.flags.ConfigPath, cmd.autofix)

	if cmd.format == "json" {
		if err := cmd.outputJSON(c, results); err != nil {
			return err
		}
	} else {
		cmd.outputText(c, results)
	}

	if tally := doctor.Summarize(results); !tally.Healthy() {
		return fmt.Errorf("doctor found problems: %s", tally)
	}
	return nil
}

func (cmd *DoctorCmd) outputJSON(c *cli.Command, results []doctor.Result) error {
	tally := doctor.Summarize(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary doctor.Tally    `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: tally.Healthy(),
		Summary: tally,
		Checks:  results,
	}

	return iojson.WriteWith(c.Root().Writer, stderr(c), out)
}

func (cmd *DoctorCmd) outputText(c *cli.Command, results []doctor.Result) {
	w := c.Root().Writer
	st := cmd.flags.Styles(w)
	divider := st.Divider.Render(strings.Repeat("─", 40))

	_, _ = fmt.Fprintln(w, st.Header.Render("tasktracker doctor"))
	_, _ = fmt.Fprintln(w, divider)
	_, _ = fmt.Fprintln(w)

	for _, result := range results {
		_, _ = fmt.Fprintln(w, st.Section.Render(result.Name))

		for _, item := range result.Items {
			var detail string
			if item.Detail != "" {
				detail = " " + st.Muted.Render(item.Detail)
			}

			var icon string
			switch item.Status {
			case doctor.StatusPass:
				icon = st.Pass.Render(styles.IconPass)
			case doctor.StatusWarn:
				icon = st.Warn.Render(styles.IconWarn)
			case doctor.StatusFail:
				icon = st.Fail.Render(styles.IconFail)
			}

			_, _ = fmt.Fprintf(w, "  %s %s%s\n", icon, item.Label, detail)
		}

		_, _ = fmt.Fprintln(w)
	}

	tally := doctor.Summarize(results)
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
		st.Pass.Render(fmt.Sprintf("%d passed", tally.Passed)),
		st.Warn.Render(fmt.Sprintf("%d warnings", tally.Warned)),
		st.Fail.Render(fmt.Sprintf("%d failed", tally.Failed)),
	)

	if !cmd.autofix && tally.Fixable > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("Run 'tasktracker doctor --autofix' to rewrite the task file and fix %d issue(s)", tally.Fixable)))
	}
}
