package tracker

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/colonyops/tasktracker/internal/core/config"
	"github.com/colonyops/tasktracker/internal/core/doctor"
)

// DoctorService runs health checks on the tasktracker setup.
type DoctorService struct {
	tasks  *TaskService
	config *config.Config
	log    zerolog.Logger
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(tasks *TaskService, cfg *config.Config, log zerolog.Logger) *DoctorService {
	return &DoctorService{
		tasks:  tasks,
		config: cfg,
		log:    log,
	}
}

// RunChecks executes all doctor checks and returns results. With autofix set,
// fixable task file issues are repaired by rewriting the file and the checks
// run again.
func (d *DoctorService) RunChecks(ctx context.Context, configPath string, autofix bool) []doctor.Result {
	checks := []doctor.Check{
		doctor.NewConfigCheck(d.config, configPath),
		doctor.NewTasksFileCheck(d.tasks.Path()),
	}

	results := doctor.RunAll(ctx, checks)
	if !autofix || doctor.Summarize(results).Fixable == 0 {
		return results
	}

	if _, err := d.tasks.Normalize(ctx); err != nil {
		d.log.Warn().Ctx(ctx).Err(err).Msg("doctor autofix failed")
		return results
	}

	return doctor.RunAll(ctx, checks)
}
