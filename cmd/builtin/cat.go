package builtin

import (
	"context"
	"io"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/cmd"
)

type CatCommand struct {
}

func (*CatCommand) Name() string {
	return "cat"
}

func (*CatCommand) Description() string {
	return "Print the whole file, read in sequential chunks"
}

func (*CatCommand) Usage() string {
	return "cat [-c chunk-size] <path>"
}

func (c *CatCommand) Execute(ctx context.Context, rt cmd.Runtime, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	var opts []aio.Option
	if args.Has("chunk-size") {
		opts = append(opts, aio.WithChunkSize(args.Int("chunk-size")))
	}

	f, code, err := open(ctx, rt, args, "r", opts...)
	if err != nil {
		return code, err
	}
	defer f.Close()

	var writeErr error
	err = run(ctx, rt, func(cb aio.ResultCallback) {
		f.ReadAllChunked(f.Priority(), cb, func(_ *aio.File, chunk []byte) {
			if writeErr == nil {
				_, writeErr = writer.Write(chunk)
			}
		})
	})
	if err == nil {
		err = writeErr
	}
	if err != nil {
		return 1, err
	}
	return 0, nil
}

func (*CatCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"chunk-size": {
				Name:        "chunk-size",
				Short:       "c",
				Type:        "int",
				Description: "Bytes requested per read, defaults to AIO_CHUNK_SIZE",
			},
			"priority": priorityFlag,
		},
	}
}
