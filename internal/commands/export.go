package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"todoctl/internal/exitcode"
	"todoctl/internal/export"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd writes the task list as JSON, CSV or PDF.
type ExportCmd struct {
	format string
	output string
	title  string
}

// SetFormat sets the --format flag (for testing).
func (c *ExportCmd) SetFormat(format string) {
	c.format = format
}

// SetOutput sets the --output flag (for testing).
func (c *ExportCmd) SetOutput(path string) {
	c.output = path
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Export tasks as json, csv or pdf" }
func (c *ExportCmd) Usage() string {
	return "todoctl export [--format json|csv|pdf] [--output <file>] [--title <text>]"
}
func (c *ExportCmd) NeedsStore() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", export.FormatJSON, "")
	fs.StringVar(&c.format, "f", export.FormatJSON, "")
	fs.StringVar(&c.output, "output", "", "")
	fs.StringVar(&c.output, "o", "", "")
	fs.StringVar(&c.title, "title", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.ErrOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	format := c.format
	if format == "" {
		format = export.FormatJSON
	}
	if strings.EqualFold(format, export.FormatPDF) && c.output == "" {
		fmt.Fprintln(env.ErrOut, "error: pdf export requires --output")
		return exitcode.UserError
	}

	ctrl := env.Controller()
	if err := ctrl.Load(ctx); err != nil {
		return failureCode(env.ErrOut, err)
	}

	data, err := export.Export(ctrl.Tasks(), format, export.Options{Title: c.title})
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			fmt.Fprintf(env.ErrOut, "error: unknown format: %s\n", format)
			return exitcode.UserError
		}
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.output == "" {
		env.Out.Write(data)
		return exitcode.Success
	}

	if err := os.WriteFile(c.output, data, 0644); err != nil {
		fmt.Fprintf(env.ErrOut, "error: failed to write %s: %v\n", c.output, err)
		return exitcode.UserError
	}
	printOK(env)
	return exitcode.Success
}
