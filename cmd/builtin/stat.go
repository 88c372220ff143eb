package builtin

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/cmd"
	"github.com/mwantia/aio/data"
)

type StatCommand struct {
}

func (*StatCommand) Name() string {
	return "stat"
}

func (*StatCommand) Description() string {
	return "Display file metadata"
}

func (*StatCommand) Usage() string {
	return "stat [--json] <path>"
}

func (s *StatCommand) Execute(ctx context.Context, rt cmd.Runtime, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	f, code, err := open(ctx, rt, args, "r")
	if err != nil {
		return code, err
	}
	defer f.Close()

	var stat *data.VirtualFileStat
	var statErr error
	done := false

	f.Stat(f.Priority(), func(_ *aio.File, st *data.VirtualFileStat, err error) {
		stat, statErr, done = st, err, true
	})
	if err := rt.Wait(ctx, func() bool { return done }); err != nil {
		return 1, err
	}
	if statErr != nil {
		return 1, statErr
	}

	if args.Bool("json") {
		out, err := stat.Marshal()
		if err != nil {
			return 1, err
		}
		fmt.Fprintf(writer, "%s\n", out)
		return 0, nil
	}

	fmt.Fprintf(writer, "  File: %s\n", f.Path())
	fmt.Fprintf(writer, "  Size: %-12d Blocks: %-8d IO Block: %d\n", stat.Size, stat.Blocks, stat.Blksize)
	fmt.Fprintf(writer, "Device: %-12d Inode: %-9d Links: %d\n", stat.Dev, stat.Ino, stat.Nlink)
	fmt.Fprintf(writer, "Access: (%s)  Uid: %d  Gid: %d\n", stat.Mode, stat.Uid, stat.Gid)
	fmt.Fprintf(writer, "Access: %s\n", formatTime(stat.AccessTime))
	fmt.Fprintf(writer, "Modify: %s\n", formatTime(stat.ModifyTime))
	fmt.Fprintf(writer, "Change: %s\n", formatTime(stat.ChangeTime))
	if stat.ETag != "" {
		fmt.Fprintf(writer, "  ETag: %s\n", stat.ETag)
	}
	return 0, nil
}

func (*StatCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"json": {
				Name:        "json",
				Type:        "bool",
				Description: "Print metadata as JSON",
			},
			"priority": priorityFlag,
		},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339Nano)
}
