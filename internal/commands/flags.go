package commands

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/core/config"
	"github.com/colonyops/tasktracker/internal/core/styles"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	TasksFile  string
	NoColor    bool

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// Styles returns output styles for w using the configured theme. --no-color
// wins over the config file.
func (f *Flags) Styles(w io.Writer) *styles.Styles {
	if f.Config == nil {
		return styles.Plain()
	}

	mode := f.Config.Color
	if f.NoColor {
		mode = styles.ColorNever
	}
	return styles.New(w, f.Config.Theme, mode)
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tasktracker", "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/tasktracker/tasktracker.log
// On Linux: $XDG_STATE_HOME/tasktracker/tasktracker.log (defaults to ~/.local/state/tasktracker/tasktracker.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "tasktracker", "tasktracker.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "tasktracker", "tasktracker.log")
	}

	return filepath.Join(home, ".local", "state", "tasktracker", "tasktracker.log")
}

// GlobalFlags returns the root command flags bound to f.
func GlobalFlags(f *Flags) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "path to the task file (overrides tasks_file in the config)",
			Sources:     cli.EnvVars("TASKTRACKER_FILE"),
			Destination: &f.TasksFile,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to config file",
			Sources:     cli.EnvVars("TASKTRACKER_CONFIG"),
			Value:       DefaultConfigPath(),
			Destination: &f.ConfigPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error, fatal, panic)",
			Sources:     cli.EnvVars("TASKTRACKER_LOG_LEVEL"),
			Value:       "info",
			Destination: &f.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "path to log file (defaults to the system state directory)",
			Sources:     cli.EnvVars("TASKTRACKER_LOG_FILE"),
			Destination: &f.LogFile,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "disable coloured output",
			Sources:     cli.EnvVars("TASKTRACKER_NO_COLOR"),
			Destination: &f.NoColor,
		},
	}
}
