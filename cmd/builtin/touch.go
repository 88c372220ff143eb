package builtin

import (
	"context"
	"io"
	"time"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/cmd"
)

type TouchCommand struct {
}

func (*TouchCommand) Name() string {
	return "touch"
}

func (*TouchCommand) Description() string {
	return "Set modification and access time of an existing file"
}

func (*TouchCommand) Usage() string {
	return "touch [-m mtime] [-a atime] <path>"
}

func (t *TouchCommand) Execute(ctx context.Context, rt cmd.Runtime, args *cmd.CommandArgs, _ io.Writer) (int, error) {
	f, code, err := open(ctx, rt, args, "r")
	if err != nil {
		return code, err
	}
	defer f.Close()

	mtime := args.Time("mtime")
	if mtime.IsZero() {
		mtime = time.Now()
	}

	if err := run(ctx, rt, func(cb aio.ResultCallback) {
		f.Touch(mtime, args.Time("atime"), f.Priority(), cb)
	}); err != nil {
		return 1, err
	}
	return 0, nil
}

func (*TouchCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"mtime": {
				Name:        "mtime",
				Short:       "m",
				Type:        "time",
				Description: "Modification time as unix seconds or RFC3339, defaults to now",
			},
			"atime": {
				Name:        "atime",
				Short:       "a",
				Type:        "time",
				Description: "Access time as unix seconds or RFC3339, unchanged if omitted",
			},
			"priority": priorityFlag,
		},
	}
}
