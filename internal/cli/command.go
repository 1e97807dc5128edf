// Package cli implements bibindex's command dispatch: four fixed-arity
// commands mirroring the original tool's upload/findrec/seek1/seek2,
// plus two supplemental commands (shell, dump) not present in the
// original.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one CLI subcommand.
type Command struct {
	// Name is the subcommand's name, as typed after "bibindex".
	Name string

	// Usage is the freeform argument list shown in help, e.g. "<id>".
	Usage string

	// Short is a one-line description for the top-level help listing.
	Short string

	// Flags defines command-specific flags, or nil if the command takes
	// none.
	Flags *flag.FlagSet

	// Exec runs the command with its positional arguments (after flag
	// parsing). Its returned error is reported to stderr.
	Exec func(ctx context.Context, o *IO, args []string) error

	// AlwaysExitZero marks a command as reporting failures (not found,
	// I/O trouble) through printed messages rather than the process exit
	// code — the behavior of the four original commands. Supplemental
	// commands leave this false.
	AlwaysExitZero bool
}

// HelpLine formats the command for the top-level usage listing.
func (c *Command) HelpLine() string {
	usage := c.Name
	if c.Usage != "" {
		usage += " " + c.Usage
	}
	return fmt.Sprintf("  %-28s %s", usage, c.Short)
}

// Run parses flags, executes Exec, and returns a process exit code.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	positional := args
	if c.Flags != nil {
		c.Flags.SetOutput(&strings.Builder{})
		if err := c.Flags.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			o.ErrPrintln("error:", err)
			return usageExitCode(c)
		}
		positional = c.Flags.Args()
	}

	if err := c.Exec(ctx, o, positional); err != nil {
		o.ErrPrintln("error:", err)
		if c.AlwaysExitZero {
			return 0
		}
		return 1
	}
	return 0
}

func usageExitCode(c *Command) int {
	if c.AlwaysExitZero {
		return 0
	}
	return 2
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
