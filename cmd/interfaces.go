package cmd

import (
	"context"
	"io"

	"github.com/mwantia/aio"
)

// Runtime is the part of the file layer commands operate on.
type Runtime interface {
	// Open opens path with the given mode token and waits for the result.
	Open(ctx context.Context, path, mode string, opts ...aio.Option) (*aio.File, error)

	// Wait drives completions until done reports true or ctx is done.
	Wait(ctx context.Context, done func() bool) error
}

// Command represents an executable command operating on a single file.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "head -n 16 <path>")
	Usage() string

	// Execute runs the command with parsed arguments
	// The writer parameter is where command output should be written
	// Returns exit code (0 = success) and error message
	Execute(ctx context.Context, rt Runtime, args *CommandArgs, writer io.Writer) (int, error)

	// GetFlags returns the flag set for this command (this is optional)
	GetFlags() *CommandFlagSet
}
