package builtin

import (
	"context"
	"io"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/cmd"
)

type ChownCommand struct {
}

func (*ChownCommand) Name() string {
	return "chown"
}

func (*ChownCommand) Description() string {
	return "Change owner and optionally group of a file"
}

func (*ChownCommand) Usage() string {
	return "chown -u uid [-g gid] <path>"
}

func (c *ChownCommand) Execute(ctx context.Context, rt cmd.Runtime, args *cmd.CommandArgs, _ io.Writer) (int, error) {
	f, code, err := open(ctx, rt, args, "r")
	if err != nil {
		return code, err
	}
	defer f.Close()

	if err := run(ctx, rt, func(cb aio.ResultCallback) {
		f.Chown(args.Int("uid"), args.Int("gid"), f.Priority(), cb)
	}); err != nil {
		return 1, err
	}
	return 0, nil
}

func (*ChownCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"uid": {
				Name:        "uid",
				Short:       "u",
				Type:        "int",
				Required:    true,
				Description: "New owner id",
			},
			"gid": {
				Name:        "gid",
				Short:       "g",
				Type:        "int",
				Default:     int64(-1),
				Description: "New group id, -1 keeps the group",
			},
			"priority": priorityFlag,
		},
	}
}
