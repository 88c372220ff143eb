// Package builtin contains the commands shipped with the aio binary.
package builtin

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/cmd"
	"github.com/mwantia/aio/data"
)

var errMissingPath = errors.New("missing path")

// InitBuiltin registers every builtin command at m.
func InitBuiltin(m *cmd.Manager) error {
	commands := []cmd.Command{
		&CatCommand{},
		&HeadCommand{},
		&StatCommand{},
		&StatFsCommand{},
		&TruncateCommand{},
		&TouchCommand{},
		&ChownCommand{},
		&SyncCommand{},
	}

	for _, command := range commands {
		if err := m.Register(command); err != nil {
			return err
		}
	}
	return nil
}

var priorityFlag = &cmd.CommandFlag{
	Name:        "priority",
	Short:       "p",
	Type:        "int",
	Default:     int64(data.PriorityDefault),
	Description: "Request priority between -4 and 4",
}

func priority(args *cmd.CommandArgs) data.Priority {
	return data.Priority(args.Int("priority")).Clamp()
}

// open opens the positional path of args and returns the exit code to use on failure.
func open(ctx context.Context, rt cmd.Runtime, args *cmd.CommandArgs, mode string, opts ...aio.Option) (*aio.File, int, error) {
	path, ok := args.Path()
	if !ok {
		return nil, 2, errMissingPath
	}

	opts = append(opts, aio.WithPriority(priority(args)))
	f, err := rt.Open(ctx, path, mode, opts...)
	if err != nil {
		return nil, 1, fmt.Errorf("unable to open '%s': %w", path, err)
	}
	return f, 0, nil
}

// run issues one result operation and waits for its completion.
func run(ctx context.Context, rt cmd.Runtime, issue func(cb aio.ResultCallback)) error {
	var result error
	done := false

	issue(func(_ *aio.File, err error) {
		result, done = err, true
	})

	if err := rt.Wait(ctx, func() bool { return done }); err != nil {
		return err
	}
	return result
}
