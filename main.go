package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/commands"
	"github.com/colonyops/tasktracker/internal/core/config"
	"github.com/colonyops/tasktracker/internal/core/logging"
	"github.com/colonyops/tasktracker/internal/tracker"
	"github.com/colonyops/tasktracker/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, these are read from
	// runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		app       = &tracker.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "tasktracker",
		Usage:     "Track tasks in a local JSON file",
		UsageText: "tasktracker [global options] command [command options]",
		Description: `tasktracker records tasks with a status and created/updated timestamps in a
single JSON file.

Run 'tasktracker add buy milk' to add a task, then 'tasktracker list' to see it.
Command names are case-insensitive.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags:                 commands.GlobalFlags(flags),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logFile := flags.LogFile
			if logFile == "" {
				logFile = commands.DefaultLogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// --file / TASKTRACKER_FILE wins over the config file.
			if flags.TasksFile != "" {
				cfg.TasksFile = flags.TasksFile
			}
			flags.Config = cfg

			built, err := tracker.NewApp(cfg, logging.Component(logging.ComponentTasks))
			if err != nil {
				return ctx, err
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*app = *built

			ctx = logging.WithTasksFile(ctx, cfg.TasksPath())
			if c.Args().Present() {
				ctx = logging.WithCommand(ctx, c.Args().First())
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Action: commands.RootAction,
	}

	root = commands.NewAddCmd(flags, app).Register(root)
	root = commands.NewUpdateCmd(flags, app).Register(root)
	root = commands.NewDeleteCmd(flags, app).Register(root)
	root = commands.NewListCmd(flags, app).Register(root)
	root = commands.NewMarkCmd(flags, app).Register(root)
	root = commands.NewBatchCmd(flags, app).Register(root)
	root = commands.NewDoctorCmd(flags, app).Register(root)
	root = commands.NewConfigCmd(flags).Register(root)

	exitCode := 0
	if err := root.Run(ctx, commands.NormalizeArgs(root, os.Args)); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		exitCode = 1
	}

	os.Exit(exitCode)
}
