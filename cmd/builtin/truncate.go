package builtin

import (
	"context"
	"io"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/cmd"
)

type TruncateCommand struct {
}

func (*TruncateCommand) Name() string {
	return "truncate"
}

func (*TruncateCommand) Description() string {
	return "Shrink or extend a file to the given size"
}

func (*TruncateCommand) Usage() string {
	return "truncate -s size <path>"
}

func (t *TruncateCommand) Execute(ctx context.Context, rt cmd.Runtime, args *cmd.CommandArgs, _ io.Writer) (int, error) {
	f, code, err := open(ctx, rt, args, "r+")
	if err != nil {
		return code, err
	}
	defer f.Close()

	if err := run(ctx, rt, func(cb aio.ResultCallback) {
		f.Truncate(args.Int64("size"), f.Priority(), cb)
	}); err != nil {
		return 1, err
	}
	return 0, nil
}

func (*TruncateCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"size": {
				Name:        "size",
				Short:       "s",
				Type:        "int",
				Required:    true,
				Description: "New size in bytes",
			},
			"priority": priorityFlag,
		},
	}
}
