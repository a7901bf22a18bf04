package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tasktracker/internal/core/validate"
)

// NormalizeArgs lowercases the command token in args when it names one of
// root's commands, so "ADD" and "Mark-Done" dispatch like "add" and
// "mark-done". Global flags before the command are skipped. args[0] is the
// program name.
func NormalizeArgs(root *cli.Command, args []string) []string {
	if len(args) < 2 {
		return args
	}

	valueFlags := make(map[string]bool)
	for _, f := range root.Flags {
		if _, ok := f.(*cli.BoolFlag); ok {
			continue
		}
		for _, name := range f.Names() {
			valueFlags[name] = true
		}
	}

	out := make([]string, len(args))
	copy(out, args)

	for i := 1; i < len(out); i++ {
		arg := out[i]
		if arg == "--" {
			return out
		}

		if strings.HasPrefix(arg, "-") {
			name := strings.TrimLeft(arg, "-")
			if !strings.Contains(name, "=") && valueFlags[name] {
				i++
			}
			continue
		}

		lower := strings.ToLower(arg)
		for _, c := range root.Commands {
			if c.HasName(lower) {
				out[i] = lower
				break
			}
		}
		return out
	}

	return out
}

// RootAction runs when no command matched. With arguments it reports the
// unknown command, otherwise it prints help.
func RootAction(_ context.Context, c *cli.Command) error {
	if c.Args().Len() > 0 {
		return fmt.Errorf("unknown command %q. Run 'tasktracker --help' for usage", c.Args().First())
	}
	return cli.ShowSubcommandHelp(c)
}

// requireArgs returns a usage error when c has fewer than n arguments.
func requireArgs(c *cli.Command, n int) error {
	if c.NArg() < n {
		return fmt.Errorf("usage: %s", c.UsageText)
	}
	return nil
}

// taskIDArg parses argument i of c as a task ID.
func taskIDArg(c *cli.Command, i int) (uint32, error) {
	return validate.ParseTaskID(c.Args().Get(i))
}

// joinArgs joins arguments from index i onward with single spaces.
func joinArgs(c *cli.Command, i int) string {
	return strings.Join(c.Args().Slice()[i:], " ")
}

// stderr returns the root command's error writer, falling back to os.Stderr.
func stderr(c *cli.Command) io.Writer {
	if w := c.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
