package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/cmd"
	"github.com/mwantia/aio/data"
)

type StatFsCommand struct {
}

func (*StatFsCommand) Name() string {
	return "statfs"
}

func (*StatFsCommand) Description() string {
	return "Display metadata of the filesystem holding a file"
}

func (*StatFsCommand) Usage() string {
	return "statfs <path>"
}

func (s *StatFsCommand) Execute(ctx context.Context, rt cmd.Runtime, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	f, code, err := open(ctx, rt, args, "r")
	if err != nil {
		return code, err
	}
	defer f.Close()

	var stat *data.VirtualFsStat
	var statErr error
	done := false

	f.StatFs(f.Priority(), func(_ *aio.File, st *data.VirtualFsStat, err error) {
		stat, statErr, done = st, err, true
	})
	if err := rt.Wait(ctx, func() bool { return done }); err != nil {
		return 1, err
	}
	if statErr != nil {
		return 1, statErr
	}

	fmt.Fprintf(writer, "Block size: %-10d Fundamental block size: %d\n", stat.BlockSize, stat.FragmentSize)
	fmt.Fprintf(writer, "Blocks: Total: %-10d Free: %-10d Available: %d\n", stat.Blocks, stat.BlocksFree, stat.BlocksAvailable)
	fmt.Fprintf(writer, "Inodes: Total: %-10d Free: %d\n", stat.Files, stat.FilesFree)
	fmt.Fprintf(writer, "Namelen: %-10d Available bytes: %d\n", stat.NameMax, stat.Available())
	return 0, nil
}

func (*StatFsCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"priority": priorityFlag,
		},
	}
}
