package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/core/calendar"
	"github.com/colonyops/tasktracker/internal/core/config"
	"github.com/colonyops/tasktracker/internal/store/jsonfile"
	"github.com/colonyops/tasktracker/internal/tracker"
)

type testCLI struct {
	flags *Flags
	app   *tracker.App
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.TasksFile = filepath.Join(t.TempDir(), "tasks.json")
	cfg.Color = config.ColorNever

	now := int64(1700000000)
	clock := func() int64 {
		now++
		return now
	}

	app, err := tracker.NewApp(&cfg, zerolog.Nop(), jsonfile.WithClock(calendar.Clock(clock)))
	require.NoError(t, err)

	return &testCLI{flags: &Flags{Config: &cfg}, app: app}
}

// root builds a fresh command tree writing to out. Error output is discarded.
func (tc *testCLI) root(out *bytes.Buffer) *cli.Command {
	return tc.rootWithErr(out, &bytes.Buffer{})
}

// rootWithErr builds a fresh command tree writing to out and errOut.
func (tc *testCLI) rootWithErr(out, errOut *bytes.Buffer) *cli.Command {
	root := &cli.Command{
		Name:      "tasktracker",
		Writer:    out,
		ErrWriter: errOut,
		Action:    RootAction,
	}
	root = NewAddCmd(tc.flags, tc.app).Register(root)
	root = NewUpdateCmd(tc.flags, tc.app).Register(root)
	root = NewDeleteCmd(tc.flags, tc.app).Register(root)
	root = NewListCmd(tc.flags, tc.app).Register(root)
	root = NewMarkCmd(tc.flags, tc.app).Register(root)
	root = NewDoctorCmd(tc.flags, tc.app).Register(root)
	root = NewBatchCmd(tc.flags, tc.app).Register(root)
	root = NewConfigCmd(tc.flags).Register(root)
	return root
}

// run executes args and returns what was written to stdout.
func (tc *testCLI) run(args ...string) (string, error) {
	out, _, err := tc.runWithErr(args...)
	return out, err
}

// runWithErr executes args and returns what was written to stdout and stderr.
func (tc *testCLI) runWithErr(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	root := tc.rootWithErr(&out, &errOut)
	argv := NormalizeArgs(root, append([]string{"tasktracker"}, args...))
	err := root.Run(context.Background(), argv)
	return out.String(), errOut.String(), err
}

func (tc *testCLI) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := tc.run(args...)
	require.NoError(t, err, "args: %v", args)
	return out
}
