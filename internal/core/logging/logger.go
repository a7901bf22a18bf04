// Package logging holds the zerolog helpers shared by commands and services:
// component loggers and a hook that copies the running command and task file
// from the context onto every event.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentTasks tags events from the task service and the task file store.
const ComponentTasks = "tasks"

// Component returns a child of the global logger tagged with name under the
// "cmp" key. Build it after log.Logger is configured; the child does not
// follow later changes to the global logger.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
