package builtin

import (
	"context"
	"io"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/cmd"
)

type SyncCommand struct {
}

func (*SyncCommand) Name() string {
	return "sync"
}

func (*SyncCommand) Description() string {
	return "Flush a file to stable storage"
}

func (*SyncCommand) Usage() string {
	return "sync [-d] <path>"
}

func (s *SyncCommand) Execute(ctx context.Context, rt cmd.Runtime, args *cmd.CommandArgs, _ io.Writer) (int, error) {
	f, code, err := open(ctx, rt, args, "r+")
	if err != nil {
		return code, err
	}
	defer f.Close()

	if err := run(ctx, rt, func(cb aio.ResultCallback) {
		if args.Bool("data") {
			f.DataSync(f.Priority(), cb)
			return
		}
		f.Sync(f.Priority(), cb)
	}); err != nil {
		return 1, err
	}
	return 0, nil
}

func (*SyncCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"data": {
				Name:        "data",
				Short:       "d",
				Type:        "bool",
				Description: "Only flush file data",
			},
			"priority": priorityFlag,
		},
	}
}
