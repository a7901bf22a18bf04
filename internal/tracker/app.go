package tracker

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/tasktracker/internal/core/config"
	"github.com/colonyops/tasktracker/internal/store/jsonfile"
)

// App bundles the services used by the CLI.
type App struct {
	Tasks  *TaskService
	Doctor *DoctorService
	Config *config.Config
}

// NewApp constructs an App from a loaded config.
func NewApp(cfg *config.Config, log zerolog.Logger, opts ...jsonfile.Option) (*App, error) {
	policy := jsonfile.Policy(cfg.DecodePolicy)
	if !policy.IsValid() {
		return nil, fmt.Errorf("unknown decode policy %q", cfg.DecodePolicy)
	}

	tasks := NewTaskService(cfg.TasksPath(), policy, log, opts...)

	return &App{
		Tasks:  tasks,
		Doctor: NewDoctorService(tasks, cfg, log),
		Config: cfg,
	}, nil
}
