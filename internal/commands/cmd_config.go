package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/tasktracker/internal/core/config"
)

type ConfigCmd struct {
	flags *Flags
	force bool
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command and its subcommands to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "tasktracker config validate",
				Description: "Validates config values and checks that the config file and task file paths are usable.",
				Action:      cmd.runValidate,
			},
			{
				Name:      "show",
				Usage:     "Print the effective configuration as YAML",
				UsageText: "tasktracker config show",
				Action:    cmd.runShow,
			},
			{
				Name:      "init",
				Usage:     "Write a config file with default values",
				UsageText: "tasktracker config init [--force]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "force",
						Usage:       "overwrite an existing config file",
						Destination: &cmd.force,
					},
				},
				Action: cmd.runInit,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runValidate(_ context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)
	if err == nil {
		_, _ = fmt.Fprintln(c.Root().Writer, "Configuration is valid")
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fe := range fieldErrs {
		_, _ = fmt.Fprintf(stderr(c), "%s: %v\n", fe.Field, fe.Err)
	}
	return fmt.Errorf("%d error(s) found", len(fieldErrs))
}

func (cmd *ConfigCmd) runShow(_ context.Context, c *cli.Command) error {
	bits, err := yaml.Marshal(cmd.flags.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	_, err = c.Root().Writer.Write(bits)
	return err
}

func (cmd *ConfigCmd) runInit(_ context.Context, c *cli.Command) error {
	path := cmd.flags.ConfigPath
	if path == "" {
		return fmt.Errorf("no config path set")
	}

	if _, err := os.Stat(path); err == nil && !cmd.force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	bits, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, bits, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Wrote %s\n", path)
	return nil
}
