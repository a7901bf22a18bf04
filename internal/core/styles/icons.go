package styles

import "github.com/colonyops/tasktracker/internal/core/task"

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconTodo       = "○"
	IconInProgress = "◐"
	IconDone       = "●"
)

// Doctor result icons
var (
	IconPass = "✔"
	IconWarn = "●"
	IconFail = "✘"
)

// StatusIcon returns the icon for a task status.
func StatusIcon(st task.Status) string {
	switch st {
	case task.StatusInProgress:
		return IconInProgress
	case task.StatusDone:
		return IconDone
	default:
		return IconTodo
	}
}
