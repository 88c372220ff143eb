package builtin

import (
	"context"
	"io"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/cmd"
)

type HeadCommand struct {
}

func (*HeadCommand) Name() string {
	return "head"
}

func (*HeadCommand) Description() string {
	return "Print up to n bytes with a single read"
}

func (*HeadCommand) Usage() string {
	return "head [-n bytes] [-o offset] <path>"
}

func (h *HeadCommand) Execute(ctx context.Context, rt cmd.Runtime, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	f, code, err := open(ctx, rt, args, "r")
	if err != nil {
		return code, err
	}
	defer f.Close()

	var buf []byte
	var readErr error
	done := false

	err = f.Read(args.Int("bytes"), args.Int64("offset"), f.Priority(), func(_ *aio.File, data []byte, err error) {
		buf, readErr, done = data, err, true
	})
	if err != nil {
		return 2, err
	}

	if err := rt.Wait(ctx, func() bool { return done }); err != nil {
		return 1, err
	}
	if readErr != nil {
		return 1, readErr
	}

	if _, err := writer.Write(buf); err != nil {
		return 1, err
	}
	return 0, nil
}

func (*HeadCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"bytes": {
				Name:        "bytes",
				Short:       "n",
				Type:        "int",
				Default:     int64(512),
				Description: "Number of bytes to read",
			},
			"offset": {
				Name:        "offset",
				Short:       "o",
				Type:        "int",
				Default:     aio.CurrentPosition,
				Description: "Offset to read from, -1 for the current position",
			},
			"priority": priorityFlag,
		},
	}
}
